package client

import "time"

// User mirrors the API's session user payload.
type User struct {
	ID     string `json:"id"`
	Pseudo string `json:"pseudo"`
}

// AuthResponse is returned by the register and login routes.
type AuthResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Error   string `json:"error"`
}

// SessionResponse is returned by GET /api/session.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
	User          User `json:"user"`
}

// Booster is one pack definition from GET /api/boosters.
type Booster struct {
	Name  string `json:"Name"`
	Count int    `json:"Count"`
}

type boostersResponse struct {
	Boosters []Booster `json:"boosters"`
}

// Award is one skin sent to the collection write endpoint.
type Award struct {
	SkinID   int    `json:"skinId"`
	SkinName string `json:"skinName"`
	Rarity   string `json:"rarity"`
}

// OwnedSkin is one record from the collection read endpoint.
type OwnedSkin struct {
	SkinID     int       `json:"skinId"`
	SkinName   string    `json:"skinName"`
	Rarity     string    `json:"rarity"`
	ObtainedAt time.Time `json:"obtainedAt"`
}

// CollectionResponse is returned by GET /api/user/skins. StoreAvailable is
// false when the server's store was unreachable and the list degraded to
// empty.
type CollectionResponse struct {
	Success        bool        `json:"success"`
	Skins          []OwnedSkin `json:"skins"`
	StoreAvailable bool        `json:"storeAvailable"`
}
