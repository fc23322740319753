package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// KYCStatus is the aggregate status of a user's KYC request.
// Wire values are numeric for compatibility with existing clients.
type KYCStatus int

const (
	KYCStatusToFill    KYCStatus = 0
	KYCStatusToVerify  KYCStatus = 1
	KYCStatusValidated KYCStatus = 2
	KYCStatusMissing   KYCStatus = 3
	KYCStatusReturned  KYCStatus = 4
	KYCStatusRejected  KYCStatus = 5
)

func (s KYCStatus) Valid() bool {
	return s >= KYCStatusToFill && s <= KYCStatusRejected
}

// KYCStepStatus is the status of a single identity step.
type KYCStepStatus int

const (
	StepStatusToFill    KYCStepStatus = 0
	StepStatusToVerify  KYCStepStatus = 1
	StepStatusValidated KYCStepStatus = 2
	StepStatusMissing   KYCStepStatus = 3
	StepStatusRejected  KYCStepStatus = 4
)

func (s KYCStepStatus) Valid() bool {
	return s >= StepStatusToFill && s <= StepStatusRejected
}

type KYCStepType int

const (
	StepTypeFacePhoto     KYCStepType = 1
	StepTypeBirthDate     KYCStepType = 2
	StepTypeDriverLicense KYCStepType = 3
)

// RequiredStepTypes is the full step set every KYC request must carry.
var RequiredStepTypes = []KYCStepType{
	StepTypeFacePhoto,
	StepTypeBirthDate,
	StepTypeDriverLicense,
}

type ValueType int

const (
	ValueTypePhoto ValueType = 1
	ValueTypeDate  ValueType = 2
	ValueTypeText  ValueType = 3
)

func (t ValueType) Valid() bool {
	return t >= ValueTypePhoto && t <= ValueTypeText
}

// StepValue is one named, typed entry submitted for a step.
type StepValue struct {
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Type  ValueType `json:"type"`
}

// StepValues is stored as a single JSON column, ordered as submitted.
type StepValues []StepValue

func (v StepValues) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *StepValues) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("unsupported step values column type %T", src)
	}
}

type KYCIdentityStep struct {
	ID          int64         `gorm:"column:id;primaryKey" json:"id"`
	Status      KYCStepStatus `gorm:"column:status" json:"status"`
	Value       StepValues    `gorm:"column:value;type:json" json:"value"`
	Comment     string        `gorm:"column:comment" json:"comment,omitempty"`
	SubmittedAt *time.Time    `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time    `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	Type        KYCStepType   `gorm:"column:type" json:"type"`
	RequestID   int64         `gorm:"column:kyc_user_request_id;index" json:"kyc_user_request_id"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (KYCIdentityStep) TableName() string { return "kyc_identity_steps" }

type KYCRequest struct {
	ID          int64      `gorm:"column:id;primaryKey" json:"id"`
	Status      KYCStatus  `gorm:"column:status" json:"status"`
	Comment     string     `gorm:"column:comment" json:"comment,omitempty"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	// exactly one request per user
	UserID int64             `gorm:"column:user_id;uniqueIndex" json:"user"`
	Steps  []KYCIdentityStep `gorm:"foreignKey:RequestID" json:"kyc_steps"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (KYCRequest) TableName() string { return "kyc_user_requests" }
