package models

import "time"

// Step is a stage of the booking wizard
type Step string

const (
	StepConfiguration  Step = "config"
	StepDailySelection Step = "daily"
	StepSummary        Step = "summary"
)

// ParseStep maps a step query value to a Step, falling back to configuration
func ParseStep(value string) Step {
	switch Step(value) {
	case StepConfiguration, StepDailySelection, StepSummary:
		return Step(value)
	}
	return StepConfiguration
}

// Index returns the 1-based position of the step in the wizard
func (s Step) Index() int {
	switch s {
	case StepDailySelection:
		return 2
	case StepSummary:
		return 3
	}
	return 1
}

// DayCost is the priced breakdown of one day
type DayCost struct {
	DayNumber int       `json:"day"`
	Date      time.Time `json:"date"`
	Hotel     *Hotel    `json:"hotel,omitempty"`
	Lunch     *Meal     `json:"lunch,omitempty"`
	Dinner    *Meal     `json:"dinner,omitempty"`
	Total     float64   `json:"total"`
}

// PriceSummary is the derived cost of a booking
type PriceSummary struct {
	Days          []DayCost `json:"days"`
	GrandTotal    float64   `json:"grandTotal"`
	AveragePerDay float64   `json:"averagePerDay"`
}

// ProgressStatus is the derived completion state of the daily selections
type ProgressStatus struct {
	Ready                bool    `json:"ready"`
	SelectedDays         int     `json:"selectedDays"`
	TotalDays            int     `json:"totalDays"`
	CompletionPercentage float64 `json:"completionPercentage"`
	IncompleteDays       []int   `json:"incompleteDays"`
}

// Controls tells the presentation layer which intents are currently accepted
type Controls struct {
	CanSubmit   bool `json:"canSubmit"`
	CanEditDays bool `json:"canEditDays"`
	CanContinue bool `json:"canContinue"`
	CanBack     bool `json:"canBack"`
	CanConfirm  bool `json:"canConfirm"`
	CanReset    bool `json:"canReset"`
}

// TripInfo holds display values resolved from the catalog
type TripInfo struct {
	CitizenshipName string     `json:"citizenshipName,omitempty"`
	BoardTypeName   string     `json:"boardTypeName,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
}

// Snapshot is the read model of a wizard session. Revision grows with every
// change so watchers can drop snapshots that arrive late.
type Snapshot struct {
	SessionID string               `json:"sessionId,omitempty"`
	Revision  uint64               `json:"revision"`
	Step      Step                 `json:"step"`
	Pending   bool                 `json:"pending"`
	Booking   BookingConfiguration `json:"booking"`
	Trip      TripInfo             `json:"trip"`
	Pricing   PriceSummary         `json:"pricing"`
	Progress  ProgressStatus       `json:"progress"`
	Controls  Controls             `json:"controls"`
}

// ConfirmationRequest is sent to the confirmation backend
type ConfirmationRequest struct {
	SessionID  string               `json:"sessionId"`
	Booking    BookingConfiguration `json:"booking"`
	GrandTotal float64              `json:"grandTotal"`
}

// Confirmation is the result of a confirmed booking
type Confirmation struct {
	ConfirmationCode string    `json:"confirmationCode"`
	SessionID        string    `json:"sessionId,omitempty"`
	GrandTotal       float64   `json:"grandTotal"`
	AveragePerDay    float64   `json:"averagePerDay"`
	ConfirmedAt      time.Time `json:"confirmedAt"`
}

// ConfirmationStatus is the progress of a confirmation workflow
type ConfirmationStatus string

const (
	ConfirmationStatusPending   ConfirmationStatus = "pending"
	ConfirmationStatusPriced    ConfirmationStatus = "priced"
	ConfirmationStatusRecorded  ConfirmationStatus = "recorded"
	ConfirmationStatusConfirmed ConfirmationStatus = "confirmed"
	ConfirmationStatusFailed    ConfirmationStatus = "failed"
)

// ConfirmationState is returned by the confirmation workflow query
type ConfirmationState struct {
	SessionID     string             `json:"sessionId"`
	Status        ConfirmationStatus `json:"status"`
	GrandTotal    float64            `json:"grandTotal"`
	FailureReason string             `json:"failureReason,omitempty"`
	LastUpdated   time.Time          `json:"lastUpdated"`
}

// Workflow names, task queue and queries shared by the API server and worker
const (
	TaskQueue                    = "trip-booking-queue"
	WorkflowTripConfirmation     = "TripConfirmationWorkflow"
	QueryGetState                = "get_state"
	ConfirmationWorkflowIDPrefix = "trip-confirmation-"
)

// ConfirmedBooking is the durable record of a confirmed trip
type ConfirmedBooking struct {
	ConfirmationCode string               `json:"confirmationCode"`
	SessionID        string               `json:"sessionId"`
	Booking          BookingConfiguration `json:"booking"`
	GrandTotal       float64              `json:"grandTotal"`
	AveragePerDay    float64              `json:"averagePerDay"`
	ConfirmedAt      time.Time            `json:"confirmedAt"`
}
