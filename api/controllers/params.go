package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/api/validators"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// parsePathID reads the {id} route parameter. A malformed id gets the
// same not-found answer as an unknown one.
func parsePathID(r *http.Request, notFoundMessage string) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return id, nil
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: pageSize}, nil
}
