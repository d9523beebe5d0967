package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a staff account in the back office
type User struct {
	UserID       string `gorm:"primarykey;column:user_id" json:"userId"`
	Username     string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Email        string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FullName     string `gorm:"column:full_name;not null" json:"fullName"`
	Phone        string `gorm:"column:phone" json:"phone"`
	Role         Role   `gorm:"column:role;type:varchar(50);not null" json:"role"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return u.BaseModel.BeforeCreate(tx)
}

// Customer represents an account holder. Portal credentials are nullable
// until the customer self-registers for the portal.
type Customer struct {
	CustomerID       string     `gorm:"primarykey;column:customer_id" json:"customerId"`
	AccountNumber    string     `gorm:"column:account_number;uniqueIndex;not null" json:"accountNumber"`
	FirstName        string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName         string     `gorm:"column:last_name;not null" json:"lastName"`
	Email            string     `gorm:"column:email" json:"email"`
	Phone            string     `gorm:"column:phone;not null" json:"phone"`
	IDNumber         string     `gorm:"column:id_number;uniqueIndex;not null" json:"idNumber"`
	Address          string     `gorm:"column:address;not null" json:"address"`
	County           string     `gorm:"column:county;not null" json:"county"`
	Town             string     `gorm:"column:town;not null" json:"town"`
	PostalCode       string     `gorm:"column:postal_code" json:"postalCode"`
	CustomerType     string     `gorm:"column:customer_type;not null" json:"customerType"`
	RegistrationDate time.Time  `gorm:"column:registration_date;default:CURRENT_TIMESTAMP" json:"registrationDate"`
	IsActive         bool       `gorm:"column:is_active;default:true" json:"isActive"`
	PasswordHash     *string    `gorm:"column:password_hash" json:"-"`
	PortalRegistered bool       `gorm:"column:portal_registered;default:false" json:"portalRegistered"`
	LastLogin        *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID primary key and stamps the registration date
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == "" {
		c.CustomerID = uuid.NewString()
	}
	if c.RegistrationDate.IsZero() {
		c.RegistrationDate = time.Now()
	}
	return c.BaseModel.BeforeCreate(tx)
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Connection represents an electrical connection owned by a customer
type Connection struct {
	ConnectionID        string           `gorm:"primarykey;column:connection_id" json:"connectionId"`
	CustomerID          string           `gorm:"column:customer_id;not null;index" json:"customerId"`
	MeterNumber         string           `gorm:"column:meter_number;uniqueIndex;not null" json:"meterNumber"`
	ConnectionType      string           `gorm:"column:connection_type;not null" json:"connectionType"`
	LoadCapacity        float64          `gorm:"column:load_capacity;not null" json:"loadCapacity"`
	InstallationDate    *time.Time       `gorm:"column:installation_date" json:"installationDate,omitempty"`
	Status              ConnectionStatus `gorm:"column:connection_status;type:varchar(50);default:pending;index" json:"status"`
	LocationCoordinates string           `gorm:"column:location_coordinates" json:"locationCoordinates"`
	TransformerID       string           `gorm:"column:transformer_id" json:"transformerId"`
	FeederLine          string           `gorm:"column:feeder_line" json:"feederLine"`
	LastReadingDate     *time.Time       `gorm:"column:last_reading_date" json:"lastReadingDate,omitempty"`
	LastReadingValue    *float64         `gorm:"column:last_reading_value" json:"lastReadingValue,omitempty"`
	BaseModel

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID;references:CustomerID" json:"customer,omitempty"`
}

// TableName sets the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// BeforeCreate assigns a UUID primary key
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ConnectionID == "" {
		c.ConnectionID = uuid.NewString()
	}
	return c.BaseModel.BeforeCreate(tx)
}
