package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"fitclub/internal/auth"
	"fitclub/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func getPlans() []Plan {
	individualLimit := 12
	familyLimit := 40

	return []Plan{
		{
			Type:        TypeIndividual,
			Name:        "Individual",
			Description: "One member, 12 class visits per month at a chosen gym",
			PriceCents:  12000,
			MaxMembers:  1,
			VisitsLimit: &individualLimit,
			GymRequired: true,
		},
		{
			Type:        TypeFamily,
			Name:        "Family",
			Description: "Up to 4 members, 40 shared class visits per month, any gym",
			PriceCents:  32000,
			MaxMembers:  4,
			VisitsLimit: &familyLimit,
			GymRequired: false,
		},
		{
			Type:        TypeUnlimited,
			Name:        "Unlimited",
			Description: "One member, unlimited classes, any gym",
			PriceCents:  25000,
			MaxMembers:  1,
			VisitsLimit: nil,
			GymRequired: false,
		},
	}
}

func findPlan(planType string) (Plan, error) {
	for _, p := range getPlans() {
		if string(p.Type) == planType {
			return p, nil
		}
	}
	return Plan{}, errors.New("unknown plan type")
}

// ListPlans godoc
// @Summary      List subscription plans
// @Tags         subscriptions
// @Produce      json
// @Success      200  {array}  Plan
// @Router       /subscriptions/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, getPlans())
}

// Create godoc
// @Summary      Purchase subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSubscriptionRequest  true  "Plan selection"
// @Success      201      {object}  Subscription
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := findPlan(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan type"})
		return
	}

	if plan.GymRequired && req.GymID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gym_id is required for this plan"})
		return
	}

	gymID := req.GymID
	if !plan.GymRequired {
		gymID = nil
	}

	sub, err := h.repo.CreateSubscription(c.Request.Context(), userID, gymID, plan.Type, plan.PriceCents, plan.MaxMembers, plan.VisitsLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription"})
		return
	}

	metrics.RecordSubscription(string(plan.Type))
	c.JSON(http.StatusCreated, sub)
}

// ListMine godoc
// @Summary      List my active subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Subscription
// @Failure      500  {object}  gin.H
// @Router       /subscriptions [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subs, err := h.repo.ListActiveByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// Cancel godoc
// @Summary      Cancel subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path      int  true  "Subscription ID"
// @Success      200             {object}  gin.H
// @Failure      400             {object}  gin.H
// @Failure      404             {object}  gin.H
// @Router       /subscriptions/{subscriptionID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subID, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	if err := h.repo.CancelSubscription(c.Request.Context(), subID, userID); err != nil {
		if errors.Is(err, ErrNotFoundOrNotOwned) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}
