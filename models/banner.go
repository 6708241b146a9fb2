package models

import "time"

// BannersCollection holds promotional banners shown on the home screen.
const BannersCollection = "banners"

type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
