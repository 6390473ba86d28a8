package dto

import "time"

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

type MeOutput struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
	Email  string `json:"email"`
}

type DeviceSessionOutput struct {
	DeviceID       string    `json:"deviceId"`
	IP             string    `json:"ip"`
	Title          string    `json:"title"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}
