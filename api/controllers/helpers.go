package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mdzoubir/kazidomi-api/api/middleware"
	pkgerrors "github.com/mdzoubir/kazidomi-api/pkg/errors"
)

// requestActor collects the authenticated identity from the request context.
type requestActor struct {
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	IsStaff    bool
}

func currentActor(r *http.Request) (requestActor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return requestActor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return requestActor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	actor := requestActor{
		UserID:  userID,
		IsStaff: middleware.RoleFromContext(r.Context()) == middleware.RoleStaff,
	}
	if raw := middleware.CustomerIDFromContext(r.Context()); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			return requestActor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
		}
		actor.CustomerID = &customerID
	}
	return actor, nil
}

// requireCustomer returns the caller's customer id or a forbidden error for
// staff accounts without a profile.
func (a requestActor) requireCustomer() (uuid.UUID, error) {
	if a.CustomerID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "a customer profile is required")
	}
	return *a.CustomerID, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing "+name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
