package models

import "time"

// LoginRequest is the staff login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// RegisterStaffRequest is the staff-created-staff payload
type RegisterStaffRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	Role            Role   `json:"role"`
}

// UpdateStaffRequest edits an existing staff member
type UpdateStaffRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        Role   `json:"role"`
	NewPassword string `json:"newPassword,omitempty"`
}

// PortalLoginRequest is the customer portal login payload
type PortalLoginRequest struct {
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

// PortalRegisterRequest links an existing back-office customer record to a
// portal credential. It never creates a customer.
type PortalRegisterRequest struct {
	AccountNumber   string `json:"accountNumber"`
	IDNumber        string `json:"idNumber"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePasswordRequest changes the customer's portal credential
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfileRequest updates the customer-editable profile fields
type UpdateProfileRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateCustomerRequest is the staff-side customer creation payload
type CreateCustomerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IDNumber     string `json:"idNumber"`
	Address      string `json:"address"`
	County       string `json:"county"`
	Town         string `json:"town"`
	PostalCode   string `json:"postalCode"`
	CustomerType string `json:"customerType"`
}

// UpdateCustomerRequest edits an existing customer
type UpdateCustomerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	County       string `json:"county"`
	Town         string `json:"town"`
	PostalCode   string `json:"postalCode"`
	CustomerType string `json:"customerType"`
}

// CreateConnectionRequest is the staff-side connection creation payload
type CreateConnectionRequest struct {
	CustomerID          string     `json:"customerId"`
	CountyCode          string     `json:"countyCode"`
	ConnectionType      string     `json:"connectionType"`
	LoadCapacity        float64    `json:"loadCapacity"`
	InstallationDate    *time.Time `json:"installationDate,omitempty"`
	Status              string     `json:"status,omitempty"`
	LocationCoordinates string     `json:"locationCoordinates"`
	TransformerID       string     `json:"transformerId"`
	FeederLine          string     `json:"feederLine"`
}

// ReportFaultRequest covers both staff and customer fault reporting; the
// reporter is taken from the acting principal, never from the payload.
type ReportFaultRequest struct {
	ConnectionID        *string `json:"connectionId,omitempty"`
	FaultType           string  `json:"faultType"`
	Description         string  `json:"description"`
	LocationDescription string  `json:"locationDescription"`
	LocationCoordinates string  `json:"locationCoordinates"`
	Severity            string  `json:"severity,omitempty"`
	AffectedCustomers   int     `json:"affectedCustomers,omitempty"`
}

// AssignFaultRequest assigns a fault to a technician
type AssignFaultRequest struct {
	TechnicianID string `json:"technicianId"`
}

// UpdateStatusRequest is the shared status-transition payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AddNoteRequest appends a note to a fault's audit log
type AddNoteRequest struct {
	Notes string `json:"notes"`
}

// ScheduleMaintenanceRequest is the maintenance scheduling payload
type ScheduleMaintenanceRequest struct {
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	MaintenanceType     string    `json:"maintenanceType"`
	EquipmentType       string    `json:"equipmentType"`
	EquipmentID         string    `json:"equipmentId"`
	LocationDescription string    `json:"locationDescription"`
	LocationCoordinates string    `json:"locationCoordinates"`
	ScheduledDate       time.Time `json:"scheduledDate"`
	ScheduledTime       string    `json:"scheduledTime"`
	EstimatedDuration   *int      `json:"estimatedDuration,omitempty"`
	AssignedTeam        string    `json:"assignedTeam"`
	AssignedTo          *string   `json:"assignedTo,omitempty"`
	Priority            string    `json:"priority,omitempty"`
}

// AddMaintenanceLogRequest appends a work record to a maintenance schedule
type AddMaintenanceLogRequest struct {
	WorkPerformed   string `json:"workPerformed"`
	PartsUsed       string `json:"partsUsed"`
	IssuesFound     string `json:"issuesFound"`
	Recommendations string `json:"recommendations"`
	ActualDuration  *int   `json:"actualDuration,omitempty"`
}

// CreateServiceRequestRequest is the customer-side request submission payload
type CreateServiceRequestRequest struct {
	RequestType  string  `json:"requestType"`
	ConnectionID *string `json:"connectionId,omitempty"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority,omitempty"`
}

// AssignServiceRequestRequest assigns a service request to a staff member
type AssignServiceRequestRequest struct {
	AssigneeID string `json:"assigneeId"`
}

// NewMessageRequest starts a support thread
type NewMessageRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ReplyMessageRequest appends a reply to an existing thread root
type ReplyMessageRequest struct {
	Message string `json:"message"`
}

// CalendarEvent is one entry in the maintenance calendar feed
type CalendarEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	BackgroundColor string `json:"backgroundColor"`
	URL             string `json:"url"`
}

// StatusCount is one row of a group-by aggregate
type StatusCount struct {
	Key   string `json:"key" gorm:"column:key"`
	Count int64  `json:"count" gorm:"column:count"`
}

// FaultReport is the fault aggregate over a date range
type FaultReport struct {
	StartDate            time.Time     `json:"startDate"`
	EndDate              time.Time     `json:"endDate"`
	TotalFaults          int64         `json:"totalFaults"`
	ResolvedFaults       int64         `json:"resolvedFaults"`
	AvgResolutionHours   float64       `json:"avgResolutionHours"`
	FaultsBySeverity     []StatusCount `json:"faultsBySeverity"`
	FaultsByType         []StatusCount `json:"faultsByType"`
	DailyTrend           []StatusCount `json:"dailyTrend"`
}

// MaintenanceReport is the maintenance aggregate over a date range
type MaintenanceReport struct {
	StartDate      time.Time     `json:"startDate"`
	EndDate        time.Time     `json:"endDate"`
	TotalScheduled int64         `json:"totalScheduled"`
	Completed      int64         `json:"completed"`
	InProgress     int64         `json:"inProgress"`
	Cancelled      int64         `json:"cancelled"`
	ByType         []StatusCount `json:"byType"`
	ByEquipment    []StatusCount `json:"byEquipment"`
}

// PerformanceSnapshot is the current operational dashboard for managers
type PerformanceSnapshot struct {
	TotalCustomers            int64   `json:"totalCustomers"`
	ActiveConnections         int64   `json:"activeConnections"`
	SuspendedConnections      int64   `json:"suspendedConnections"`
	TotalFaultsMonth          int64   `json:"totalFaultsMonth"`
	ResolvedFaultsMonth       int64   `json:"resolvedFaultsMonth"`
	MaintenanceCompletedMonth int64   `json:"maintenanceCompletedMonth"`
	PendingRequests           int64   `json:"pendingRequests"`
	ResolutionRate            float64 `json:"resolutionRate"`
}

// StaffDashboard is the back-office landing page payload
type StaffDashboard struct {
	TotalCustomers       int64                 `json:"totalCustomers"`
	ActiveConnections    int64                 `json:"activeConnections"`
	PendingFaults        int64                 `json:"pendingFaults"`
	ScheduledMaintenance int64                 `json:"scheduledMaintenance"`
	PendingRequests      int64                 `json:"pendingRequests"`
	RecentFaults         []Fault               `json:"recentFaults"`
	UpcomingMaintenance  []MaintenanceSchedule `json:"upcomingMaintenance"`
}

// CustomerDashboard is the portal landing page payload
type CustomerDashboard struct {
	ActiveConnections   int64            `json:"activeConnections"`
	PendingFaults       int64            `json:"pendingFaults"`
	PendingRequests     int64            `json:"pendingRequests"`
	UnreadNotifications int64            `json:"unreadNotifications"`
	RecentFaults        []Fault          `json:"recentFaults"`
	RecentRequests      []ServiceRequest `json:"recentRequests"`
}
