package saved

import (
	"errors"
	"time"
)

// Concert is one user's bookmark of an upstream event. Rows are created and
// deleted, never updated.
type Concert struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Images     string    `json:"images"`
	Genre      string    `json:"genre"`
	StartDate  string    `json:"start_date"`
	TicketsURL string    `json:"tickets_url"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PriceMin   *float64  `json:"price_min"`
	PriceMax   *float64  `json:"price_max"`
	Lat        *float64  `json:"lat"`
	Long       *float64  `json:"long"`
	TMID       string    `json:"tm_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// (user_id, tm_id) is unique
var ErrAlreadySaved = errors.New("concert already saved")

var ErrNotFound = errors.New("saved concert not found")

type CreateSavedRequest struct {
	UserID     int64    `json:"-"`
	Name       string   `json:"name" binding:"required,max=300"`
	Images     string   `json:"images" binding:"omitempty,max=2000"`
	Genre      string   `json:"genre" binding:"omitempty,max=120"`
	StartDate  string   `json:"start_date" binding:"omitempty,max=40"`
	TicketsURL string   `json:"tickets_url" binding:"omitempty,max=2000"`
	City       string   `json:"city" binding:"omitempty,max=120"`
	State      string   `json:"state" binding:"omitempty,max=120"`
	PriceMin   *float64 `json:"price_min" binding:"omitempty,min=0"`
	PriceMax   *float64 `json:"price_max" binding:"omitempty,min=0"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	TMID       string   `json:"tm_id" binding:"required,max=64"`
}

func NewFromCreateRequest(req CreateSavedRequest) Concert {
	return Concert{
		UserID:     req.UserID,
		Name:       req.Name,
		Images:     req.Images,
		Genre:      req.Genre,
		StartDate:  req.StartDate,
		TicketsURL: req.TicketsURL,
		City:       req.City,
		State:      req.State,
		PriceMin:   req.PriceMin,
		PriceMax:   req.PriceMax,
		Lat:        req.Latitude,
		Long:       req.Longitude,
		TMID:       req.TMID,
		CreatedAt:  time.Now().UTC(),
	}
}
