package apiv1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/khudpay/onboard/internal/pkg/geodata"
	"github.com/khudpay/onboard/internal/pkg/middleware"
)

// APIServer serves the JSON endpoints the console pages call: the health
// ping and the geo lookup proxy.
type APIServer struct {
	geo *geodata.Client
}

// NewAPIServer creates a new API server instance.
func NewAPIServer(geo *geodata.Client) *APIServer {
	return &APIServer{geo: geo}
}

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint.
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetCountries returns the country names for the location dropdowns.
func (s *APIServer) GetCountries(c *fiber.Ctx) error {
	countries, err := s.geo.Countries(c.Context())
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(fiber.Map{"options": countries})
}

// GetStates returns the states of a country. The seq query parameter is
// echoed back so the page can hand it to the draft, which drops replies
// that a newer selection has superseded.
func (s *APIServer) GetStates(c *fiber.Ctx) error {
	states, err := s.geo.States(c.Context(), c.Query("country"))
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(fiber.Map{
		"seq":     querySeq(c),
		"options": states,
	})
}

// GetCities returns the cities of a state, echoing seq like GetStates.
func (s *APIServer) GetCities(c *fiber.Ctx) error {
	cities, err := s.geo.Cities(c.Context(), c.Query("country"), c.Query("state"))
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(fiber.Map{
		"seq":     querySeq(c),
		"options": cities,
	})
}

// GetReverseGeocode resolves map coordinates to a display address for the
// location picker.
func (s *APIServer) GetReverseGeocode(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon are required")
	}

	address, err := s.geo.ReverseGeocode(c.Context(), lat, lon)
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(fiber.Map{"address": address})
}

func querySeq(c *fiber.Ctx) uint64 {
	seq, _ := strconv.ParseUint(c.Query("seq"), 10, 64)
	return seq
}

// lookupError surfaces an upstream failure as 502 so the page JS can show
// its toast without retry loops.
func lookupError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// RegisterHandlers attaches the v1 routes to the given group. The geo
// proxy is session-bound: only the editor pages call it.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	geo := router.Group("/geo", middleware.RequireAPISessionAuth)
	geo.Get("/countries", s.GetCountries)
	geo.Get("/states", s.GetStates)
	geo.Get("/cities", s.GetCities)
	geo.Get("/reverse", s.GetReverseGeocode)
}
