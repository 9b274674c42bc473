package registration

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/willvault/registry/pkg/billing"
	"github.com/willvault/registry/pkg/notifier"
	"github.com/willvault/registry/pkg/tiers"
	"github.com/willvault/registry/pkg/validator"
	"github.com/willvault/registry/pkg/wizard"
)

// StepState is the per-step view of the wizard for rendering.
type StepState struct {
	Step      wizard.Step `json:"step"`
	Completed bool        `json:"completed"`
	Current   bool        `json:"current"`
}

// WizardState is the full wizard snapshot returned by the state and
// navigation endpoints.
type WizardState struct {
	Step           wizard.Step             `json:"step"`
	Plan           tiers.Level             `json:"plan,omitempty"`
	PlanChosen     bool                    `json:"planChosen"`
	BillingMessage string                  `json:"billingMessage,omitempty"`
	Steps          []StepState             `json:"steps"`
	Notifications  []notifier.Notification `json:"notifications,omitempty"`
}

// Handler serves the registration wizard over HTTP.
type Handler struct {
	flow    *Flow
	pricing billing.CatalogPricing
	toasts  *notifier.MemoryNotifier
}

// NewHandler wires the HTTP layer. toasts may be nil when the notifier
// is not the in-memory one; notifications are then absent from state
// responses.
func NewHandler(flow *Flow, pricing billing.CatalogPricing, toasts *notifier.MemoryNotifier) *Handler {
	return &Handler{flow: flow, pricing: pricing, toasts: toasts}
}

// Router returns the wizard sub-router, meant to be mounted under a
// path like /registration.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/state", h.state)
	r.Post("/plan", h.choosePlan)
	r.Post("/profile", h.submitProfile)
	r.Post("/next", h.next)
	r.Post("/back", h.back)
	r.Post("/checkout", h.checkout)
	r.Get("/return", h.paymentReturn)
	r.Post("/finish", h.finish)
	return r
}

func (h *Handler) snapshot() WizardState {
	session := h.flow.Session()
	current := session.Current()
	plan, chosen := session.Plan()

	state := WizardState{
		Step:       current,
		PlanChosen: chosen,
	}
	if chosen {
		state.Plan = plan
		state.BillingMessage = h.pricing.BillingMessage(plan)
	}
	for _, step := range wizard.Steps() {
		state.Steps = append(state.Steps, StepState{
			Step:      step,
			Completed: session.StepCompleted(step),
			Current:   step == current,
		})
	}
	if h.toasts != nil {
		state.Notifications = h.toasts.Drain()
	}
	return state
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.snapshot())
}

func (h *Handler) choosePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level tiers.Level `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.flow.ChoosePlan(req.Level); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeData(w, http.StatusOK, h.snapshot())
}

func (h *Handler) submitProfile(w http.ResponseWriter, r *http.Request) {
	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.flow.SubmitProfile(r.Context(), profile); err != nil {
		if errs := validator.Extract(err); len(errs) > 0 {
			writeValidationError(w, errs)
			return
		}
		// Backend failure: the toast is already queued, return the
		// state so the screen re-renders with it.
		writeData(w, http.StatusOK, h.snapshot())
		return
	}
	writeData(w, http.StatusOK, h.snapshot())
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	h.flow.Advance()
	writeData(w, http.StatusOK, h.snapshot())
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	h.flow.Back()
	writeData(w, http.StatusOK, h.snapshot())
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	res := h.flow.StartCheckout(r.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	writeData(w, status, res)
}

// paymentReturn handles the processor redirect. The reconciler strips
// the query markers off a copy of the request URL; the cleaned
// location goes back to the client so it can replace its address bar.
func (h *Handler) paymentReturn(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	loc := URLLocation{URL: &u}
	outcome := h.flow.MaybeReconcile(r.Context(), loc)

	writeData(w, http.StatusOK, struct {
		Location  string      `json:"location"`
		Reconcile Outcome     `json:"reconcile"`
		State     WizardState `json:"state"`
	}{
		Location:  u.String(),
		Reconcile: outcome,
		State:     h.snapshot(),
	})
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request) {
	session := h.flow.Session()
	if session.Current() != wizard.StepConfirmation {
		writeError(w, http.StatusConflict, "the wizard has not reached confirmation")
		return
	}
	h.flow.Finish(r.Context())
	writeData(w, http.StatusOK, h.snapshot())
}
