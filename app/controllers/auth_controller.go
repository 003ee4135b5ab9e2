package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sujit-baniya/flash"

	"github.com/khudpay/onboard/app/models"
	"github.com/khudpay/onboard/internal/pkg/session"
	"github.com/khudpay/onboard/internal/pkg/statistics"
	"github.com/khudpay/onboard/internal/pkg/usercontext"
)

// Forgot-password flow state kept in the session between steps.
const (
	FORGOT_STEP   string = "forgot_step"
	FORGOT_MOBILE string = "forgot_mobile"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		mobile, err := models.NormalizePhone(c.FormValue("mobile"), models.DefaultPhoneRegion)
		if err != nil {
			fm["message"] = "Please enter a valid mobile number."

			return flash.WithError(c, fm).Redirect("/login")
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		user, err := userRepo().GetByMobile(mobile)
		if err != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.CheckPassword(c.FormValue("password")) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_IS_ADMIN, user.IsAdmin())

		if err = sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/")
	}

	return c.Render("auth/login", fiber.Map{
		"Title":         "Login",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Flash":         flash.Get(c),
		"Csrf":          csrfToken(c),
	}, "layouts/main")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err = sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "You have been logged out.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthSignup(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		if c.FormValue("otp") != models.DemoOTP {
			fm["message"] = "The OTP you entered is incorrect."

			return flash.WithError(c, fm).Redirect("/signup")
		}

		mobile, err := models.NormalizePhone(c.FormValue("mobile"), models.DefaultPhoneRegion)
		if err != nil || mobile == "" {
			fm["message"] = "Please enter a valid mobile number."

			return flash.WithError(c, fm).Redirect("/signup")
		}

		user, err := models.CreateUser(c.FormValue("username"), mobile, c.FormValue("password"))
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/signup")
		}

		// The repository promotes the first account to console admin.
		if err = userRepo().Create(user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/signup")
		}

		go statistics.UpdateStatisticsCache()

		fm = fiber.Map{
			"type":    "success",
			"message": "Your account has been created. Please log in.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return c.Render("auth/signup", fiber.Map{
		"Title":         "Sign Up",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Flash":         flash.Get(c),
		"Csrf":          csrfToken(c),
	}, "layouts/main")
}

// HandleAuthForgotPassword walks the three step reset flow: mobile, OTP,
// new password. The current step lives in the session so a reload lands on
// the right screen.
func HandleAuthForgotPassword(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": fmt.Sprintf("something went wrong: %s", err),
		}

		return flash.WithError(c, fm).Redirect("/login")
	}

	step, _ := sess.Get(FORGOT_STEP).(string)
	if step == "" {
		step = "mobile"
	}

	if c.Method() == fiber.MethodPost {
		return handleForgotStep(c, sess, step)
	}

	return c.Render("auth/forgot", fiber.Map{
		"Title":         "Forgot Password",
		"FromProtected": usercontext.IsLoggedIn(c),
		"Flash":         flash.Get(c),
		"Csrf":          csrfToken(c),
		"Step":          step,
	}, "layouts/main")
}

func handleForgotStep(c *fiber.Ctx, sess *fsession.Session, step string) error {
	fm := fiber.Map{
		"type": "error",
	}

	switch step {
	case "mobile":
		mobile, err := models.NormalizePhone(c.FormValue("mobile"), models.DefaultPhoneRegion)
		if err != nil || mobile == "" {
			fm["message"] = "Please enter a valid mobile number."

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}
		if _, err := userRepo().GetByMobile(mobile); err != nil {
			fm["message"] = "No account exists for this mobile number."

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		sess.Set(FORGOT_STEP, "otp")
		sess.Set(FORGOT_MOBILE, mobile)
		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "An OTP has been sent to your mobile number.",
		}

		return flash.WithSuccess(c, fm).Redirect("/forgot-password")

	case "otp":
		if c.FormValue("otp") != models.DemoOTP {
			fm["message"] = "The OTP you entered is incorrect."

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		sess.Set(FORGOT_STEP, "reset")
		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		return c.Redirect("/forgot-password")

	case "reset":
		mobile, _ := sess.Get(FORGOT_MOBILE).(string)
		user, err := userRepo().GetByMobile(mobile)
		if err != nil {
			sess.Delete(FORGOT_STEP)
			sess.Delete(FORGOT_MOBILE)
			_ = sess.Save()
			fm["message"] = "Your reset session has expired. Please start again."

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		if c.FormValue("password") != c.FormValue("confirmPassword") {
			fm["message"] = "Passwords do not match."

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		if err := user.SetPassword(c.FormValue("password")); err != nil {
			fm["message"] = err.Error()

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}
		if err := userRepo().Update(user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		sess.Delete(FORGOT_STEP)
		sess.Delete(FORGOT_MOBILE)
		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Your password has been reset. Please log in.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return c.Redirect("/forgot-password")
}
