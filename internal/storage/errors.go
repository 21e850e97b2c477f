package storage

import "errors"

var (
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrAlreadyInWatchlist = errors.New("stock already in watchlist")
	ErrNotInWatchlist     = errors.New("stock not found in watchlist")
)
