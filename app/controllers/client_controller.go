package controllers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/khudpay/onboard/internal/pkg/editor"
	"github.com/khudpay/onboard/internal/pkg/statistics"
	"github.com/khudpay/onboard/internal/pkg/usercontext"
)

// clientDraft loads the session's client draft, creating a blank one when
// none exists yet.
func clientDraft(c *fiber.Ctx) *editor.ClientDraft {
	d := draftStore.GetClient(sessionID(c))
	if d == nil {
		d = editor.NewClientDraft()
	}
	return d
}

// applyClientForm copies the posted form fields into the draft, including
// the per-row contract dates.
func applyClientForm(c *fiber.Ctx, d *editor.ClientDraft) {
	d.ApplyForm(editor.ClientForm{
		ClientName:        c.FormValue("clientName"),
		ClientType:        c.FormValue("clientType"),
		AccountManager:    c.FormValue("accountManager"),
		Phone:             c.FormValue("phone"),
		BillingTerms:      c.FormValue("billingTerms"),
		InvoiceProcessing: c.FormValue("invoiceProcessing"),
		SLA:               c.FormValue("sla"),
	})
	for i := range d.Record.Contracts {
		start := c.FormValue(fmt.Sprintf("startDate_%d", i))
		end := c.FormValue(fmt.Sprintf("endDate_%d", i))
		_ = d.SetContractDates(i, start, end)
	}
}

func saveClientDraft(c *fiber.Ctx, d *editor.ClientDraft) error {
	return draftStore.PutClient(sessionID(c), d)
}

func renderClientForm(c *fiber.Ctx, d *editor.ClientDraft) error {
	return c.Render("client/form", fiber.Map{
		"Title":         "Client Onboarding",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Username":      usercontext.GetUsername(c),
		"Flash":         flash.Get(c),
		"Csrf":          csrfToken(c),
		"Draft":         d,
		"IsEdit":        d.Mode == editor.ModeEdit,
	}, "layouts/main")
}

// HandleClientNew shows the onboarding form. An in-progress create draft is
// kept so returning from the branch form does not lose typed values.
func HandleClientNew(c *fiber.Ctx) error {
	d := draftStore.GetClient(sessionID(c))
	if d == nil || d.Mode != editor.ModeCreate {
		d = editor.NewClientDraft()
		if err := saveClientDraft(c, d); err != nil {
			return flashInternalError(c, "/", err)
		}
	}
	return renderClientForm(c, d)
}

// HandleClientEdit shows the form hydrated from the stored record. An
// unknown id falls back to a blank form that keeps the id, so submitting
// re-creates the record.
func HandleClientEdit(c *fiber.Ctx) error {
	id := paramInt64(c, "id")

	d := draftStore.GetClient(sessionID(c))
	if d == nil || d.Mode != editor.ModeEdit || d.ClientID != id {
		d = editor.NewClientDraftForEdit(id, clientRepo().Load())
		if err := saveClientDraft(c, d); err != nil {
			return flashInternalError(c, "/", err)
		}
	}
	return renderClientForm(c, d)
}

// HandleClientApply persists the posted field values into the draft.
func HandleClientApply(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, "/client", err)
	}
	return c.Redirect(clientFormPath(d))
}

// HandleClientSelectCountry records the country pick and hands the page JS
// the sequence number its state lookup must echo back.
func HandleClientSelectCountry(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	seq := d.SelectCountry(c.FormValue("value"))
	if err := saveClientDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"seq": seq})
}

func HandleClientSelectState(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	seq := d.SelectState(c.FormValue("value"))
	if err := saveClientDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"seq": seq})
}

func HandleClientSelectCity(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	d.SelectCity(c.FormValue("value"))
	if err := saveClientDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

type optionsPayload struct {
	Seq     uint64   `json:"seq"`
	Options []string `json:"options"`
}

// HandleClientStateOptions installs a fetched state list. Replies whose
// sequence number no longer matches the draft are dropped, so a late
// response for an old country never overwrites the current one.
func HandleClientStateOptions(c *fiber.Ctx) error {
	var payload optionsPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d := clientDraft(c)
	applied := d.ApplyStateOptions(payload.Seq, payload.Options)
	if applied {
		if err := saveClientDraft(c, d); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"applied": applied})
}

func HandleClientCityOptions(c *fiber.Ctx) error {
	var payload optionsPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d := clientDraft(c)
	applied := d.ApplyCityOptions(payload.Seq, payload.Options)
	if applied {
		if err := saveClientDraft(c, d); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(fiber.Map{"applied": applied})
}

func HandleContractAdd(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	d.AddContract()
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

func HandleContractRemove(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	if err := d.RemoveContract(paramIndex(c, "index")); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

// HandleContractUpload attaches the posted PDF to the contract row. The
// upload form carries only the file, so no field values are applied here.
func HandleContractUpload(c *fiber.Ctx) error {
	d := clientDraft(c)

	filename, data, err := formFile(c, "file")
	if err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	if err := d.AttachContractFile(paramIndex(c, "index"), filename, data); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

// HandleContractDownload streams the attached contract back to the browser.
func HandleContractDownload(c *fiber.Ctx) error {
	d := clientDraft(c)
	filename, data, err := d.ContractFile(paramIndex(c, "index"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// HandleLogoUpload attaches the posted image. Like the contract upload, the
// form carries only the file.
func HandleLogoUpload(c *fiber.Ctx) error {
	d := clientDraft(c)

	filename, data, err := formFile(c, "file")
	if err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	if err := d.AttachLogo(filename, data); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

// HandleLocationConfirm stores the address and coordinates picked on the
// map modal.
func HandleLocationConfirm(c *fiber.Ctx) error {
	var payload struct {
		Address   string  `json:"address"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d := clientDraft(c)
	d.ApplyLocation(payload.Address, payload.Latitude, payload.Longitude)
	if err := saveClientDraft(c, d); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleClientBranchAdd opens the branch form with a blank draft.
func HandleClientBranchAdd(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	if err := draftStore.PutBranch(sessionID(c), editor.NewBranchDraft(nil)); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect("/client/branch")
}

// HandleClientBranchEdit checks the branch out of the client draft and
// opens the branch form prefilled with it.
func HandleClientBranchEdit(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)

	branch, err := d.CheckoutBranch(paramIndex(c, "index"))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	if err := draftStore.PutBranch(sessionID(c), editor.NewBranchDraft(&branch)); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect("/client/branch")
}

func HandleClientBranchDelete(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)
	if err := d.DeleteBranch(paramIndex(c, "index")); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

// HandleClientSubmit validates the draft and commits the finished record
// through the repository, then clears the session draft and returns to the
// console. Upsert does the update-else-insert under the repository's lock.
func HandleClientSubmit(c *fiber.Ctx) error {
	d := clientDraft(c)
	applyClientForm(c, d)

	record, err := d.Submit()
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}
		if err := saveClientDraft(c, d); err != nil {
			return flashInternalError(c, clientFormPath(d), err)
		}
		return flash.WithError(c, fm).Redirect(clientFormPath(d))
	}

	if err := clientRepo().Upsert(record); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}

	_ = draftStore.DeleteClient(sessionID(c))
	_ = draftStore.DeleteBranch(sessionID(c))
	statistics.ResetCacheUpdateTimer()

	message := "Client added successfully!"
	if d.Mode == editor.ModeEdit {
		message = "Client updated successfully!"
	}
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect("/")
}

// HandleClientClear resets the form: blank in create mode, a fresh copy of
// the stored record in edit mode.
func HandleClientClear(c *fiber.Ctx) error {
	d := clientDraft(c)
	d.Reset(clientRepo().Load())
	if err := saveClientDraft(c, d); err != nil {
		return flashInternalError(c, clientFormPath(d), err)
	}
	return c.Redirect(clientFormPath(d))
}

// clientFormPath returns the editor URL the current draft belongs to.
func clientFormPath(d *editor.ClientDraft) string {
	if d.Mode == editor.ModeEdit {
		return fmt.Sprintf("/client/edit/%d", d.ClientID)
	}
	return "/client"
}

func flashInternalError(c *fiber.Ctx, target string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": fmt.Sprintf("something went wrong: %s", err),
	}
	return flash.WithError(c, fm).Redirect(target)
}

// formFile reads an uploaded multipart file into memory.
func formFile(c *fiber.Ctx, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	data, err := readMultipartFile(header)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
