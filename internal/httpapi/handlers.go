package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-pokedex/pokemon"
	"github.com/goliatone/go-pokedex/repositorycache"
)

var errMalformedBody = errors.New("request body must be a JSON object with name and evolutions")

// pokemonRequest is the create and update body. An id in the body is ignored;
// the path decides which record is written.
type pokemonRequest struct {
	Name       string   `json:"name"`
	Evolutions []string `json:"evolutions"`
}

func (r pokemonRequest) fields() pokemon.Fields {
	return pokemon.Fields{Name: r.Name, Evolutions: r.Evolutions}
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) list(c echo.Context) error {
	records, err := s.repo.List(c.Request().Context())
	if err != nil {
		return err
	}

	body, err := json.Marshal(records)
	if err != nil {
		return err
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	c.Response().Header().Set("ETag", etag)
	if etagMatches(c.Request().Header.Get("If-None-Match"), etag) {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) get(c echo.Context) error {
	id, err := pokemon.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	record, err := s.repo.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) create(c echo.Context) error {
	id, err := pokemon.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	record, err := s.repo.Create(c.Request().Context(), id, req.fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

func (s *Server) update(c echo.Context) error {
	id, err := pokemon.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	record, err := s.repo.Update(c.Request().Context(), id, req.fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) delete(c echo.Context) error {
	id, err := pokemon.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := s.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: repositorycache.DeleteConfirmation})
}

func (s *Server) health(c echo.Context) error {
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request().Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, errorResponse{
				Error:   "STORE_UNAVAILABLE",
				Message: "store is not reachable",
			})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// bindRequest decodes only the body; path and query values never reach the struct.
func bindRequest(c echo.Context) (pokemonRequest, error) {
	var req pokemonRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return pokemonRequest{}, pokemon.InvalidInput(errMalformedBody)
	}
	return req, nil
}

// etagMatches applies the weak comparison used for If-None-Match: "*" matches any
// representation, the header may list several tags, and a W/ prefix is ignored.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}
