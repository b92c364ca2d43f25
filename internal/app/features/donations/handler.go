// internal/app/features/donations/handler.go
package donations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	donationstore "github.com/dalemusser/mealbridge/internal/app/store/donations"
	"github.com/dalemusser/mealbridge/internal/app/system/authz"
	"github.com/dalemusser/mealbridge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mealbridge/internal/app/system/httpapi"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

// Handler serves the donation listing and claiming endpoints.
type Handler struct {
	Donations *donationstore.Store
	Log       *zap.Logger
}

// NewHandler constructs the donations handler.
func NewHandler(donations *donationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Donations: donations, Log: logger}
}

type createRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Quantity      string `json:"quantity"`
	PickupAddress string `json:"pickupAddress"`
}

// Create handles POST /api/donations. Donor only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	var req createRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Validation(w, "invalid request body", nil)
		return
	}

	req.Title = htmlsanitize.Strip(req.Title)
	req.Description = htmlsanitize.Strip(req.Description)
	req.Quantity = htmlsanitize.Strip(req.Quantity)
	req.PickupAddress = htmlsanitize.Strip(req.PickupAddress)

	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "title is required"
	}
	if req.Quantity == "" {
		fields["quantity"] = "quantity is required"
	}
	if req.PickupAddress == "" {
		fields["pickupAddress"] = "pickup address is required"
	}
	if len(fields) > 0 {
		httpapi.Validation(w, "invalid donation", fields)
		return
	}

	d, err := h.Donations.Create(r.Context(), models.Donation{
		Title:         req.Title,
		Description:   req.Description,
		Quantity:      req.Quantity,
		PickupAddress: req.PickupAddress,
		DonorID:       userID,
	})
	if err != nil {
		httpapi.Internal(w, h.Log, "donation create failed", err)
		return
	}

	h.Log.Info("donation created",
		zap.String("donation_id", d.ID.Hex()),
		zap.String("donor_id", userID.Hex()))

	httpapi.Respond(w, http.StatusCreated, d)
}

// MyDonations handles GET /api/donations/my-donations. Donor only.
func (h *Handler) MyDonations(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	list, err := h.Donations.ListByDonor(r.Context(), userID)
	if err != nil {
		httpapi.Internal(w, h.Log, "donor donations list failed", err)
		return
	}
	httpapi.Respond(w, http.StatusOK, list)
}

// Available handles GET /api/donations/available. Any signed-in role.
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	list, err := h.Donations.ListAvailable(r.Context())
	if err != nil {
		httpapi.Internal(w, h.Log, "available donations list failed", err)
		return
	}
	httpapi.Respond(w, http.StatusOK, list)
}

// Claim handles POST /api/donations/{donationID}/claim. NGO only.
//
// Exactly one NGO wins a contested donation; every other contestant gets
// the conflict envelope.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationID"))
	if err != nil {
		httpapi.Validation(w, "invalid donation id", nil)
		return
	}

	d, err := h.Donations.Claim(r.Context(), id, userID)
	if err != nil {
		if err == donationstore.ErrClaimRejected {
			// Missing id and lost race are indistinguishable to the
			// compare-and-swap; a lookup tells them apart.
			if _, getErr := h.Donations.GetByID(r.Context(), id); getErr != nil {
				httpapi.NotFound(w, "donation not found")
				return
			}
			httpapi.Conflict(w, "donation has already been claimed")
			return
		}
		httpapi.Internal(w, h.Log, "donation claim failed", err)
		return
	}

	h.Log.Info("donation claimed",
		zap.String("donation_id", d.ID.Hex()),
		zap.String("ngo_id", userID.Hex()))

	httpapi.Respond(w, http.StatusOK, d)
}

// NgoDonations handles GET /api/donations/ngo/my-donations. NGO only.
func (h *Handler) NgoDonations(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	list, err := h.Donations.ListByNgo(r.Context(), userID)
	if err != nil {
		httpapi.Internal(w, h.Log, "ngo donations list failed", err)
		return
	}
	httpapi.Respond(w, http.StatusOK, list)
}
