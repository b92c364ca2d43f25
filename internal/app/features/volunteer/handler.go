// internal/app/features/volunteer/handler.go
package volunteer

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	assignmentstore "github.com/dalemusser/mealbridge/internal/app/store/assignments"
	donationstore "github.com/dalemusser/mealbridge/internal/app/store/donations"
	"github.com/dalemusser/mealbridge/internal/app/store/queries/deliveries"
	"github.com/dalemusser/mealbridge/internal/app/system/authz"
	"github.com/dalemusser/mealbridge/internal/app/system/httpapi"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/app/system/txn"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

// Handler serves the volunteer delivery workflow.
type Handler struct {
	Client      *mongo.Client
	DB          *mongo.Database
	Donations   *donationstore.Store
	Assignments *assignmentstore.Store
	Log         *zap.Logger
}

// NewHandler constructs the volunteer handler. The Mongo client is needed
// for the multi-document completion write.
func NewHandler(client *mongo.Client, db *mongo.Database, donations *donationstore.Store, assignments *assignmentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Client:      client,
		DB:          db,
		Donations:   donations,
		Assignments: assignments,
		Log:         logger,
	}
}

// AvailableAssignments handles GET /api/volunteer/available-assignments.
// Returns claimed donations no volunteer has picked up yet.
func (h *Handler) AvailableAssignments(w http.ResponseWriter, r *http.Request) {
	list, err := deliveries.ListOpenDeliveries(r.Context(), h.DB)
	if err != nil {
		httpapi.Internal(w, h.Log, "open deliveries list failed", err)
		return
	}
	httpapi.Respond(w, http.StatusOK, list)
}

// ClaimAssignment handles POST /api/volunteer/assignment/{donationID}/claim.
//
// The donation must already be claimed by an NGO. The unique index on
// assignments.donation_id arbitrates between racing volunteers: exactly
// one insert succeeds.
func (h *Handler) ClaimAssignment(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	donationID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationID"))
	if err != nil {
		httpapi.Validation(w, "invalid donation id", nil)
		return
	}

	d, err := h.Donations.GetByID(r.Context(), donationID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpapi.NotFound(w, "donation not found")
			return
		}
		httpapi.Internal(w, h.Log, "donation lookup failed", err)
		return
	}

	switch d.Status {
	case status.DonationClaimed:
	case status.DonationAvailable:
		httpapi.Conflict(w, "donation has not been claimed by an NGO yet")
		return
	default:
		httpapi.Conflict(w, "donation has already been delivered")
		return
	}

	a, err := h.Assignments.Create(r.Context(), donationID, userID)
	if err != nil {
		if err == assignmentstore.ErrDonationAssigned {
			httpapi.Conflict(w, "this delivery has already been claimed")
			return
		}
		httpapi.Internal(w, h.Log, "assignment create failed", err)
		return
	}

	h.Log.Info("delivery claimed",
		zap.String("assignment_id", a.ID.Hex()),
		zap.String("donation_id", donationID.Hex()),
		zap.String("volunteer_id", userID.Hex()))

	httpapi.Respond(w, http.StatusOK, a)
}

// MyAssignments handles GET /api/volunteer/my-assignments.
func (h *Handler) MyAssignments(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	list, err := h.Assignments.ListByVolunteer(r.Context(), userID)
	if err != nil {
		httpapi.Internal(w, h.Log, "assignments list failed", err)
		return
	}
	httpapi.Respond(w, http.StatusOK, list)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/volunteer/assignment/{assignmentID}/status.
//
// Transitions march forward one step at a time: PENDING → IN_PROGRESS →
// COMPLETED. Completing an assignment also marks its donation DELIVERED;
// the two writes share a transaction where the deployment supports one.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpapi.Unauthorized(w)
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpapi.Validation(w, "invalid assignment id", nil)
		return
	}

	var req statusRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Validation(w, "invalid request body", nil)
		return
	}
	target := strings.ToUpper(strings.TrimSpace(req.Status))

	var updated *models.Assignment
	txErr := txn.WithTransaction(r.Context(), h.Client, func(ctx context.Context) error {
		a, err := h.Assignments.AdvanceStatus(ctx, assignmentID, userID, target)
		if err != nil {
			return err
		}
		if target == status.AssignmentCompleted {
			if _, err := h.Donations.MarkDelivered(ctx, a.DonationID); err != nil {
				return err
			}
		}
		updated = a
		return nil
	})
	if txErr != nil {
		h.respondTransitionError(w, r, assignmentID, userID, txErr)
		return
	}

	h.Log.Info("assignment status updated",
		zap.String("assignment_id", assignmentID.Hex()),
		zap.String("status", target))

	httpapi.Respond(w, http.StatusOK, updated)
}

// respondTransitionError picks the right status for a failed transition.
// The conditional update cannot tell a missing assignment from a foreign
// one or a stale status, so we re-read to disambiguate.
func (h *Handler) respondTransitionError(w http.ResponseWriter, r *http.Request, assignmentID, userID primitive.ObjectID, err error) {
	switch err {
	case assignmentstore.ErrIllegalTransition:
		httpapi.Validation(w, "invalid status transition",
			map[string]string{"status": `status must be "IN_PROGRESS" or "COMPLETED"`})
	case assignmentstore.ErrStaleTransition:
		a, getErr := h.Assignments.GetByID(r.Context(), assignmentID)
		if getErr != nil {
			httpapi.NotFound(w, "assignment not found")
			return
		}
		if a.VolunteerID != userID {
			httpapi.Forbidden(w)
			return
		}
		httpapi.Conflict(w, "assignment is not in the expected state")
	case donationstore.ErrNotDeliverable:
		httpapi.Conflict(w, "donation is not in a deliverable state")
	default:
		httpapi.Internal(w, h.Log, "assignment status update failed", err)
	}
}
