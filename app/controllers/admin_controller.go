package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"github.com/valyala/fasthttp"

	"github.com/khudpay/onboard/app/models"
	"github.com/khudpay/onboard/internal/pkg/dataurl"
	"github.com/khudpay/onboard/internal/pkg/statistics"
	"github.com/khudpay/onboard/internal/pkg/usercontext"
)

// consoleURL rebuilds the console address for redirects after an action,
// keeping the search and expansion state the user had.
func consoleURL(c *fiber.Ctx) string {
	uri := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(uri)

	uri.SetPath("/")
	for _, key := range []string{"q", "details", "focus", "expand", "branch"} {
		if v := c.Query(key); v != "" {
			uri.QueryArgs().Add(key, v)
		}
	}
	return string(uri.RequestURI())
}

// HandleAdminConsole renders the console: the searchable client list, an
// optional detail panel and the expanded branch/API tree.
func HandleAdminConsole(c *fiber.Ctx) error {
	repo := clientRepo()

	query := c.Query("q")
	var clients []models.ClientRecord
	if query != "" {
		clients = repo.SearchByName(query)
	} else {
		clients = repo.Load()
	}

	var detail *models.ClientRecord
	if id := int64(c.QueryInt("details")); id != 0 {
		if record, ok := repo.GetByID(id); ok {
			detail = &record
		}
	}

	return c.Render("admin/index", fiber.Map{
		"Title":         "Client Console",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Username":      usercontext.GetUsername(c),
		"IsAdmin":       usercontext.IsAdmin(c),
		"Flash":         flash.Get(c),
		"Clients":       clients,
		"Query":         query,
		"Detail":        detail,
		"Focus":         int64(c.QueryInt("focus")),
		"Expand":        int64(c.QueryInt("expand")),
		"Branch":        c.QueryInt("branch", -1),
		"Stats":         statistics.GetStatisticsData(),
	}, "layouts/main")
}

func HandleAdminClientDelete(c *fiber.Ctx) error {
	if err := clientRepo().DeleteByID(paramInt64(c, "id")); err != nil {
		return flashInternalError(c, consoleURL(c), err)
	}
	statistics.ResetCacheUpdateTimer()

	fm := fiber.Map{
		"type":    "success",
		"message": "Client deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect(consoleURL(c))
}

func HandleAdminBranchDelete(c *fiber.Ctx) error {
	if err := clientRepo().DeleteBranch(paramInt64(c, "id"), paramIndex(c, "index")); err != nil {
		return flashInternalError(c, consoleURL(c), err)
	}
	statistics.ResetCacheUpdateTimer()

	fm := fiber.Map{
		"type":    "success",
		"message": "Branch deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect(consoleURL(c))
}

func HandleAdminAPIDelete(c *fiber.Ctx) error {
	if err := clientRepo().DeleteAPI(paramInt64(c, "id"), paramIndex(c, "index"), paramIndex(c, "apiIndex")); err != nil {
		return flashInternalError(c, consoleURL(c), err)
	}
	statistics.ResetCacheUpdateTimer()

	fm := fiber.Map{
		"type":    "success",
		"message": "API deleted.",
	}
	return flash.WithSuccess(c, fm).Redirect(consoleURL(c))
}

// HandleAdminLogo serves a stored logo, decoding the inline data back into
// the bytes that were uploaded.
func HandleAdminLogo(c *fiber.Ctx) error {
	record, ok := clientRepo().GetByID(paramInt64(c, "id"))
	if !ok || record.ClientLogoUrl == "" {
		return fiber.ErrNotFound
	}

	mime, data, err := dataurl.Decode(record.ClientLogoUrl)
	if err != nil {
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, mime)
	return c.Send(data)
}

// HandleAdminContractDownload serves a stored contract PDF.
func HandleAdminContractDownload(c *fiber.Ctx) error {
	record, ok := clientRepo().GetByID(paramInt64(c, "id"))
	if !ok {
		return fiber.ErrNotFound
	}

	index := paramIndex(c, "index")
	if index < 0 || index >= len(record.Contracts) || !record.Contracts[index].HasFile() {
		fm := fiber.Map{
			"type":    "error",
			"message": "No file available to download.",
		}
		return flash.WithError(c, fm).Redirect(consoleURL(c))
	}

	_, data, err := dataurl.Decode(record.Contracts[index].ContractFileData)
	if err != nil {
		return fiber.ErrNotFound
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, record.Contracts[index].FileNameOrDefault(index)))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}
