package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/khudpay/onboard/internal/pkg/editor"
	"github.com/khudpay/onboard/internal/pkg/usercontext"
)

// branchDraft loads the session's branch draft. A missing draft means the
// branch form was reached without going through the client editor.
func branchDraft(c *fiber.Ctx) *editor.BranchDraft {
	return draftStore.GetBranch(sessionID(c))
}

func saveBranchDraft(c *fiber.Ctx, d *editor.BranchDraft) error {
	return draftStore.PutBranch(sessionID(c), d)
}

// applyBranchForm copies the posted branch fields into the draft, running
// each value through the field's keystroke filter.
func applyBranchForm(c *fiber.Ctx, d *editor.BranchDraft) {
	d.SetBranchName(c.FormValue("branchName"))
	d.SetBranchPOC(c.FormValue("branchPOC"))
	d.SetPhone(c.FormValue("phone"))
	d.SetStorePhone(c.FormValue("storePhone"))
	d.SetAddress(c.FormValue("address"))
	d.SetGeoLocation(c.FormValue("geoLocation"))
	for i := range d.Record.Apis {
		name := c.FormValue(fmt.Sprintf("apiName_%d", i))
		url := c.FormValue(fmt.Sprintf("apiUrl_%d", i))
		_ = d.SetAPI(i, name, url)
	}
}

// HandleBranchForm shows the branch editor. Without a draft it bounces back
// to the client form.
func HandleBranchForm(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return c.Redirect("/client")
	}

	return c.Render("client/branch", fiber.Map{
		"Title":         "Branch Details",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Username":      usercontext.GetUsername(c),
		"Flash":         flash.Get(c),
		"Csrf":          csrfToken(c),
		"Draft":         d,
	}, "layouts/main")
}

func HandleBranchApply(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return c.Redirect("/client")
	}
	applyBranchForm(c, d)
	if err := saveBranchDraft(c, d); err != nil {
		return flashInternalError(c, "/client/branch", err)
	}
	return c.Redirect("/client/branch")
}

func HandleBranchSelectCountry(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return fiber.NewError(fiber.StatusNotFound, "no branch draft")
	}
	applyBranchForm(c, d)
	seq := d.SelectCountry(c.FormValue("value"))
	if err := saveBranchDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"seq": seq})
}

func HandleBranchSelectState(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return fiber.NewError(fiber.StatusNotFound, "no branch draft")
	}
	applyBranchForm(c, d)
	seq := d.SelectState(c.FormValue("value"))
	if err := saveBranchDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"seq": seq})
}

func HandleBranchSelectCity(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return fiber.NewError(fiber.StatusNotFound, "no branch draft")
	}
	applyBranchForm(c, d)
	d.SelectCity(c.FormValue("value"))
	if err := saveBranchDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

func HandleBranchStateOptions(c *fiber.Ctx) error {
	var payload optionsPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d := branchDraft(c)
	if d == nil {
		return fiber.NewError(fiber.StatusNotFound, "no branch draft")
	}
	applied := d.ApplyStateOptions(payload.Seq, payload.Options)
	if applied {
		if err := saveBranchDraft(c, d); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"applied": applied})
}

func HandleBranchCityOptions(c *fiber.Ctx) error {
	var payload optionsPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d := branchDraft(c)
	if d == nil {
		return fiber.NewError(fiber.StatusNotFound, "no branch draft")
	}
	applied := d.ApplyCityOptions(payload.Seq, payload.Options)
	if applied {
		if err := saveBranchDraft(c, d); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"applied": applied})
}

func HandleBranchAPIAdd(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return c.Redirect("/client")
	}
	applyBranchForm(c, d)
	d.AddAPI()
	if err := saveBranchDraft(c, d); err != nil {
		return flashInternalError(c, "/client/branch", err)
	}
	return c.Redirect("/client/branch")
}

func HandleBranchAPIRemove(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return c.Redirect("/client")
	}
	applyBranchForm(c, d)

	index, _ := strconv.Atoi(c.Params("index"))
	if err := d.RemoveAPI(index); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/client/branch")
	}
	if err := saveBranchDraft(c, d); err != nil {
		return flashInternalError(c, "/client/branch", err)
	}
	return c.Redirect("/client/branch")
}

// HandleBranchSubmit commits the branch into the client draft. An edited
// branch goes back to the position it was checked out from.
func HandleBranchSubmit(c *fiber.Ctx) error {
	d := branchDraft(c)
	if d == nil {
		return c.Redirect("/client")
	}
	applyBranchForm(c, d)

	client := clientDraft(c)
	client.CommitBranch(d.Submit())
	if err := saveClientDraft(c, client); err != nil {
		return flashInternalError(c, "/client/branch", err)
	}
	_ = draftStore.DeleteBranch(sessionID(c))

	fm := fiber.Map{
		"type":    "success",
		"message": "Branch saved.",
	}
	return flash.WithSuccess(c, fm).Redirect(clientFormPath(client))
}

// HandleBranchCancel discards the branch form. A checked-out branch is put
// back unchanged.
func HandleBranchCancel(c *fiber.Ctx) error {
	client := clientDraft(c)
	client.DiscardCheckout()
	if err := saveClientDraft(c, client); err != nil {
		return flashInternalError(c, "/client", err)
	}
	_ = draftStore.DeleteBranch(sessionID(c))
	return c.Redirect(clientFormPath(client))
}
