// Package domain defines the persistent staffing entities, the record store
// contract shared by every backing strategy, and the error kinds surfaced by it.
package domain

// EntityType identifies the type of record stored in a collection.
type EntityType string

// Supported entity type identifiers used in errors, audit entries and storage buckets.
const (
	// EntityEmployer identifies an employer record.
	EntityEmployer EntityType = "employer"
	// EntityEmployee identifies an employee record.
	EntityEmployee EntityType = "employee"
	// EntityClient identifies a client record.
	EntityClient EntityType = "client"
)

// Field names shared by the wire representation and the relational columns.
const (
	FieldEmployerID  = "employerID"
	FieldEmployeeID  = "employeeID"
	FieldClientID    = "clientID"
	FieldCompanyName = "companyName"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldClientName  = "clientName"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
)

// Record is implemented by every stored entity value.
type Record interface {
	RecordID() int64
	Field(name string) string
}

// RecordPtr is the pointer side of a Record. Stores use it to assign ids and
// to hydrate values read back from durable storage.
type RecordPtr[T any] interface {
	*T
	Record
	SetRecordID(id int64)
	SetField(name, value string) bool
}

// Location holds the postal fields every entity carries.
type Location struct {
	Address string `json:"address" msgpack:"address"`
	City    string `json:"city" msgpack:"city"`
	State   string `json:"state" msgpack:"state"`
}

func (l Location) field(name string) (string, bool) {
	switch name {
	case FieldAddress:
		return l.Address, true
	case FieldCity:
		return l.City, true
	case FieldState:
		return l.State, true
	}
	return "", false
}

func (l *Location) setField(name, value string) bool {
	switch name {
	case FieldAddress:
		l.Address = value
	case FieldCity:
		l.City = value
	case FieldState:
		l.State = value
	default:
		return false
	}
	return true
}

// Employer is a company that employs employees.
type Employer struct {
	ID          int64  `json:"employerID" msgpack:"employerID"`
	CompanyName string `json:"companyName" msgpack:"companyName"`
	Location
}

// RecordID returns the store-assigned identifier.
func (e Employer) RecordID() int64 { return e.ID }

// SetRecordID assigns the identifier.
func (e *Employer) SetRecordID(id int64) { e.ID = id }

// Field returns the string value of a non-id field.
func (e Employer) Field(name string) string {
	if name == FieldCompanyName {
		return e.CompanyName
	}
	v, _ := e.field(name)
	return v
}

// SetField assigns a non-id field, reporting whether the name is known.
func (e *Employer) SetField(name, value string) bool {
	if name == FieldCompanyName {
		e.CompanyName = value
		return true
	}
	return e.setField(name, value)
}

// Employee works for an employer. EmployerID is an unvalidated reference.
type Employee struct {
	ID         int64  `json:"employeeID" msgpack:"employeeID"`
	EmployerID string `json:"employerID" msgpack:"employerID"`
	FirstName  string `json:"firstName" msgpack:"firstName"`
	LastName   string `json:"lastName" msgpack:"lastName"`
	Location
}

// RecordID returns the store-assigned identifier.
func (e Employee) RecordID() int64 { return e.ID }

// SetRecordID assigns the identifier.
func (e *Employee) SetRecordID(id int64) { e.ID = id }

// Field returns the string value of a non-id field.
func (e Employee) Field(name string) string {
	switch name {
	case FieldEmployerID:
		return e.EmployerID
	case FieldFirstName:
		return e.FirstName
	case FieldLastName:
		return e.LastName
	}
	v, _ := e.field(name)
	return v
}

// SetField assigns a non-id field, reporting whether the name is known.
func (e *Employee) SetField(name, value string) bool {
	switch name {
	case FieldEmployerID:
		e.EmployerID = value
	case FieldFirstName:
		e.FirstName = value
	case FieldLastName:
		e.LastName = value
	default:
		return e.setField(name, value)
	}
	return true
}

// Client is served by an employee. EmployeeID is an unvalidated reference.
type Client struct {
	ID         int64  `json:"clientID" msgpack:"clientID"`
	EmployeeID string `json:"employeeID" msgpack:"employeeID"`
	ClientName string `json:"clientName" msgpack:"clientName"`
	Location
}

// RecordID returns the store-assigned identifier.
func (c Client) RecordID() int64 { return c.ID }

// SetRecordID assigns the identifier.
func (c *Client) SetRecordID(id int64) { c.ID = id }

// Field returns the string value of a non-id field.
func (c Client) Field(name string) string {
	switch name {
	case FieldEmployeeID:
		return c.EmployeeID
	case FieldClientName:
		return c.ClientName
	}
	v, _ := c.field(name)
	return v
}

// SetField assigns a non-id field, reporting whether the name is known.
func (c *Client) SetField(name, value string) bool {
	switch name {
	case FieldEmployeeID:
		c.EmployeeID = value
	case FieldClientName:
		c.ClientName = value
	default:
		return c.setField(name, value)
	}
	return true
}
