// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// RefreshTokenRepository defines the contract for caching the single live
// refresh token of each user. The cache is keyed by userID, so issuing a new
// refresh token implicitly revokes the previous session.
type RefreshTokenRepository interface {

	/*
		Set stores the live refresh token of a user for a limited duration.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, userID string, token string, ttl time.Duration) error

	/*
		Get retrieves the live refresh token cached for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - string: Cached refresh token
		  - error: apperr.NotFound when no session is live, or retrieval failures
	*/
	Get(context context.Context, userID string) (string, error)

	/*
		Delete removes the cached refresh token, terminating the session.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, userID string) error
}
