package models

// Role represents a staff role
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleManager         Role = "manager"
	RoleTechnician      Role = "technician"
	RoleCustomerService Role = "customer_service"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the role is one of the known staff roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleCustomerService:
		return true
	}
	return false
}

// PrincipalKind distinguishes the two session principal types.
// A customer session must never satisfy a staff role gate and vice versa.
type PrincipalKind string

const (
	PrincipalStaff    PrincipalKind = "staff"
	PrincipalCustomer PrincipalKind = "customer"
)

// CustomerType values
const (
	CustomerResidential = "residential"
	CustomerCommercial  = "commercial"
	CustomerIndustrial  = "industrial"
)

// ConnectionStatus represents the status of an electrical connection
type ConnectionStatus string

const (
	ConnectionPending      ConnectionStatus = "pending"
	ConnectionActive       ConnectionStatus = "active"
	ConnectionSuspended    ConnectionStatus = "suspended"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// IsValid reports whether the connection status is a known value
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionPending, ConnectionActive, ConnectionSuspended, ConnectionDisconnected:
		return true
	}
	return false
}

// ConnectionType values
const (
	ConnectionSinglePhase = "single_phase"
	ConnectionThreePhase  = "three_phase"
)

// FaultStatus represents the status of a fault report
type FaultStatus string

const (
	FaultReported     FaultStatus = "reported"
	FaultAcknowledged FaultStatus = "acknowledged"
	FaultAssigned     FaultStatus = "assigned"
	FaultInProgress   FaultStatus = "in_progress"
	FaultResolved     FaultStatus = "resolved"
	FaultClosed       FaultStatus = "closed"
)

// IsValid reports whether the fault status is a known value
func (s FaultStatus) IsValid() bool {
	switch s {
	case FaultReported, FaultAcknowledged, FaultAssigned, FaultInProgress, FaultResolved, FaultClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes out the fault record
func (s FaultStatus) IsTerminal() bool {
	return s == FaultResolved || s == FaultClosed
}

// FaultSeverity represents the severity of a fault report
type FaultSeverity string

const (
	SeverityLow      FaultSeverity = "low"
	SeverityMedium   FaultSeverity = "medium"
	SeverityHigh     FaultSeverity = "high"
	SeverityCritical FaultSeverity = "critical"
)

// IsValid reports whether the severity is a known value
func (s FaultSeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// FaultType values
const (
	FaultPowerOutage      = "power_outage"
	FaultLowVoltage       = "low_voltage"
	FaultHighVoltage      = "high_voltage"
	FaultMeterFault       = "meter_fault"
	FaultTransformerFault = "transformer_fault"
	FaultLineFault        = "line_fault"
	FaultOther            = "other"
)

// FaultUpdateType represents the kind of entry in the fault audit log
type FaultUpdateType string

const (
	UpdateStatusChange FaultUpdateType = "status_change"
	UpdateAssignment   FaultUpdateType = "assignment"
	UpdateNote         FaultUpdateType = "note"
)

// MaintenanceStatus represents the status of a maintenance schedule
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
	MaintenancePostponed  MaintenanceStatus = "postponed"
)

// IsValid reports whether the maintenance status is a known value
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled, MaintenancePostponed:
		return true
	}
	return false
}

// MaintenanceType values
const (
	MaintenancePreventive = "preventive"
	MaintenanceCorrective = "corrective"
	MaintenanceEmergency  = "emergency"
	MaintenanceInspection = "inspection"
)

// EquipmentType values
const (
	EquipmentTransformer = "transformer"
	EquipmentFeederLine  = "feeder_line"
	EquipmentMeter       = "meter"
	EquipmentPole        = "pole"
	EquipmentSubstation  = "substation"
	EquipmentOther       = "other"
)

// RequestStatus represents the status of a service request
type RequestStatus string

const (
	RequestSubmitted   RequestStatus = "submitted"
	RequestUnderReview RequestStatus = "under_review"
	RequestApproved    RequestStatus = "approved"
	RequestInProgress  RequestStatus = "in_progress"
	RequestCompleted   RequestStatus = "completed"
	RequestRejected    RequestStatus = "rejected"
)

// IsValid reports whether the request status is a known value
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestSubmitted, RequestUnderReview, RequestApproved, RequestInProgress, RequestCompleted, RequestRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes out the service request
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestRejected
}

// ServiceRequestType values
const (
	RequestNewConnection = "new_connection"
	RequestUpgrade       = "upgrade"
	RequestDowngrade     = "downgrade"
	RequestRelocation    = "relocation"
	RequestNameChange    = "name_change"
	RequestDisconnection = "disconnection"
	RequestReconnection  = "reconnection"
)

// NotificationType values
const (
	NotificationFaultUpdate         = "fault_update"
	NotificationMaintenanceReminder = "maintenance_reminder"
	NotificationServiceUpdate       = "service_update"
	NotificationSystem              = "system"
	NotificationAlert               = "alert"
)

// Notification reference types
const (
	ReferenceFault          = "fault"
	ReferenceMaintenance    = "maintenance"
	ReferenceServiceRequest = "service_request"
)

// MinPasswordLength is the minimum accepted credential length for both
// staff accounts and customer portal registration
const MinPasswordLength = 6

// DefaultPageSize is the fallback pagination page size. Startup may
// override it from the PAGE_SIZE environment variable.
var DefaultPageSize = 10

// MaintenanceStatusColor maps a maintenance status to the calendar feed color
func MaintenanceStatusColor(status MaintenanceStatus) string {
	switch status {
	case MaintenanceInProgress:
		return "#f39c12"
	case MaintenanceCompleted:
		return "#27ae60"
	case MaintenanceCancelled:
		return "#e74c3c"
	case MaintenancePostponed:
		return "#9b59b6"
	default:
		return "#3788d8"
	}
}
