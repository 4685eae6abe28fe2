package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/reservation"
	"accommodation_portal/internal/validator"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
)

const similarRoomsLimit = 3

// ReservationHandler drives the guest house booking wizard. Its state lives in
// the visitor's session, so the wizard works without an account.
type ReservationHandler struct {
	*BaseHandler
}

func NewReservationHandler(base *BaseHandler) *ReservationHandler {
	return &ReservationHandler{BaseHandler: base}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/reservations")
	{
		g.GET("", redirectTo(reservation.BookingPath))
		g.GET("/booking-info", middleware.ReservationStage(reservation.StageBooking), h.BookingInfo)
		g.POST("/booking-info", middleware.ReservationStage(reservation.StageBooking), h.SaveBookingInfo)
		g.GET("/choose-room", middleware.ReservationStage(reservation.StageRoom), h.ChooseRoom)
		g.POST("/choose-room", middleware.ReservationStage(reservation.StageRoom), h.SelectRoom)
		g.GET("/confirmation", middleware.ReservationStage(reservation.StageConfirmation), h.Confirmation)
		g.POST("/confirmation", middleware.ReservationStage(reservation.StageConfirmation), h.Confirm)
		g.GET("/payment", middleware.ReservationStage(reservation.StagePayment), h.Payment)
		g.POST("/payment", middleware.ReservationStage(reservation.StagePayment), h.Pay)
		g.POST("/reset", h.Reset)
	}
}

func (h *ReservationHandler) BookingInfo(c *gin.Context) {
	info, ok := reservation.LoadBooking(h.Session(c))
	if !ok {
		info = reservation.DefaultBookingInfo()
	}
	h.renderBooking(c, http.StatusOK, info, nil)
}

func (h *ReservationHandler) renderBooking(c *gin.Context, status int, info reservation.BookingInfo, errs map[string]string) {
	page := h.NewPage(c, "Booking information")
	page.Form = info
	page.Errors = errs
	page.With("Steps", reservation.Steps(reservation.StageBooking))
	h.Render(c, status, "reservation_booking.html", page)
}

// SaveBookingInfo keeps what was entered even when it is incomplete, so the
// form can be resumed, and only moves on once every required field is set.
func (h *ReservationHandler) SaveBookingInfo(c *gin.Context) {
	sess := h.Session(c)

	var info reservation.BookingInfo
	if err := c.ShouldBind(&info); err != nil {
		h.renderBooking(c, http.StatusUnprocessableEntity, info, map[string]string{nonFieldErrors: "Some values could not be read. Please check the form."})
		return
	}
	info.Normalize()

	if err := reservation.SaveBookingInfo(sess, info); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	reservation.Unconfirm(sess)

	errs := info.Problems()
	if err := h.validator.Validate(info); err != nil {
		var vErr *validator.ValidationError
		if !errors.As(err, &vErr) {
			h.HandleServiceError(c, err)
			return
		}
		for field, msg := range vErr.Errors {
			if _, seen := errs[field]; !seen {
				errs[field] = msg
			}
		}
	}
	if len(errs) > 0 {
		h.renderBooking(c, http.StatusUnprocessableEntity, info, errs)
		return
	}
	c.Redirect(http.StatusSeeOther, reservation.RoomPath)
}

func (h *ReservationHandler) ChooseRoom(c *gin.Context) {
	sess := h.Session(c)
	info, _ := reservation.LoadBooking(sess)

	page := h.NewPage(c, "Choose your room")
	page.With("Steps", reservation.Steps(reservation.StageRoom)).
		With("Booking", info).
		With("Rooms", reservation.Rooms()).
		With("Selected", reservation.SelectedRoom(sess))
	h.Render(c, http.StatusOK, "reservation_room.html", page)
}

func (h *ReservationHandler) SelectRoom(c *gin.Context) {
	sess := h.Session(c)
	room, ok := reservation.FindRoom(c.PostForm("room"))
	if !ok {
		h.Redirect(c, reservation.RoomPath, flash.Error("Please select a room"))
		return
	}
	if reservation.SelectedRoom(sess) != room.Code() {
		reservation.Unconfirm(sess)
	}
	reservation.SelectRoom(sess, room.Code())
	c.Redirect(http.StatusSeeOther, reservation.ConfirmationPath)
}

func (h *ReservationHandler) Confirmation(c *gin.Context) {
	sess := h.Session(c)
	info, _ := reservation.LoadBooking(sess)
	code := reservation.SelectedRoom(sess)
	room, _ := reservation.FindRoom(code)

	page := h.NewPage(c, "Confirm your booking")
	page.With("Steps", reservation.Steps(reservation.StageConfirmation)).
		With("Booking", info).
		With("Room", room).
		With("Quote", reservation.NewQuote(info, code)).
		With("Similar", reservation.SimilarRooms(room, similarRoomsLimit))
	h.Render(c, http.StatusOK, "reservation_confirmation.html", page)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	reservation.Confirm(h.Session(c))
	c.Redirect(http.StatusSeeOther, reservation.PaymentPath)
}

func (h *ReservationHandler) Payment(c *gin.Context) {
	h.renderPayment(c, http.StatusOK, reservation.CardInput{}, nil)
}

func (h *ReservationHandler) renderPayment(c *gin.Context, status int, card reservation.CardInput, errs map[string]string) {
	sess := h.Session(c)
	info, _ := reservation.LoadBooking(sess)
	code := reservation.SelectedRoom(sess)
	room, _ := reservation.FindRoom(code)

	var paid *reservation.PaymentMeta
	if meta, ok := reservation.LoadPayment(sess); ok {
		paid = &meta
	}

	card.CardNumber, card.CVV = "", ""
	page := h.NewPage(c, "Payment")
	page.Form = card
	page.Errors = errs
	page.With("Steps", reservation.Steps(reservation.StagePayment)).
		With("Quote", reservation.NewQuote(info, code)).
		With("Room", room).
		With("Paid", paid)
	h.Render(c, status, "reservation_payment.html", page)
}

func (h *ReservationHandler) Pay(c *gin.Context) {
	sess := h.Session(c)
	if _, done := reservation.LoadPayment(sess); done {
		h.Redirect(c, reservation.PaymentPath, flash.Info("This booking is already paid"))
		return
	}

	var card reservation.CardInput
	if err := c.ShouldBind(&card); err != nil {
		h.renderPayment(c, http.StatusUnprocessableEntity, card, map[string]string{nonFieldErrors: "Some values could not be read. Please check the form."})
		return
	}
	card.Normalize()
	if err := h.validator.Validate(card); err != nil {
		var vErr *validator.ValidationError
		if !errors.As(err, &vErr) {
			h.HandleServiceError(c, err)
			return
		}
		h.renderPayment(c, http.StatusUnprocessableEntity, card, vErr.Errors)
		return
	}

	info, _ := reservation.LoadBooking(sess)
	quote := reservation.NewQuote(info, reservation.SelectedRoom(sess))
	meta, err := reservation.SavePayment(sess, card, quote)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "reservation paid", "room", reservation.SelectedRoom(sess), "total", meta.Total, "nights", quote.Nights)

	if h.CurrentUser(c) != nil {
		h.notify(c, models.NotificationTypePayment, "Payment received",
			fmt.Sprintf("Payment of ₦%s was received for %s", formatAmount(meta.Total), info.FullName()), reservation.PaymentPath)
	}
	h.Redirect(c, reservation.PaymentPath, flash.Success("Payment successful. Your booking is confirmed."))
}

func (h *ReservationHandler) Reset(c *gin.Context) {
	reservation.Reset(h.Session(c))
	h.Redirect(c, reservation.BookingPath, flash.Info("Your booking was cleared"))
}

// formatAmount groups thousands with commas.
func formatAmount(n int) string {
	s := fmt.Sprint(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
