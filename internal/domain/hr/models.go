package hr

import "time"

const (
	StatusActive     = "Ativo"
	StatusOnLeave    = "Afastado"
	StatusTerminated = "Desligado"
)

var EmployeeStatuses = []string{StatusActive, StatusOnLeave, StatusTerminated}

const (
	EventAbsence      = "Falta"
	EventTardiness    = "Atraso"
	EventWarning      = "Advertência"
	EventCommendation = "Elogio"
)

var EventTypes = []string{EventAbsence, EventTardiness, EventWarning, EventCommendation}

const (
	SeverityLight  = "Leve"
	SeverityMedium = "Média"
	SeveritySevere = "Grave"
)

const (
	DocumentContract    = "Contrato"
	DocumentDeclaration = "Declaração"
	DocumentCertificate = "Atestado"
	DocumentOther       = "Outro"
)

type BankInfo struct {
	Bank    string `json:"bank"`
	Agency  string `json:"agency"`
	Account string `json:"account"`
	Digit   string `json:"digit"`
}

type DriverLicense struct {
	Number   string `json:"number"`
	Category string `json:"category"`
	Validity string `json:"validity"`
}

type Relative struct {
	Name      string `json:"name" validate:"required"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Parentage string `json:"parentage"`
}

// Employee is the admission dossier. Optional fields are pointers so an
// unset value reaches the sanitizer as nil instead of a zero value.
type Employee struct {
	ID                string         `json:"id,omitempty"`
	Code              *string        `json:"codigo"`
	ReceiptNumber     *string        `json:"nrRecibo"`
	Name              string         `json:"name" validate:"required,max=200"`
	FatherName        *string        `json:"fatherName"`
	MotherName        *string        `json:"motherName"`
	BirthDate         *string        `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Gender            *string        `json:"gender"`
	MaritalStatus     *string        `json:"maritalStatus"`
	Race              *string        `json:"race"`
	Naturalness       *string        `json:"naturalness"`
	Nationality       *string        `json:"nationality"`
	Address           *string        `json:"address"`
	Neighborhood      *string        `json:"neighborhood"`
	ZipCode           *string        `json:"zipCode"`
	City              *string        `json:"city"`
	State             *string        `json:"state"`
	CPF               *string        `json:"cpf"`
	RG                *string        `json:"rg"`
	RGIssuer          *string        `json:"rgOrgao"`
	CTPS              *string        `json:"ctps"`
	PIS               *string        `json:"pis"`
	Phone             *string        `json:"phone"`
	EmergencyPhone    *string        `json:"emergencyPhone"`
	Education         *string        `json:"education"`
	DriverLicense     *DriverLicense `json:"cnh"`
	VoterID           *string        `json:"voterId"`
	BankInfo          *BankInfo      `json:"bankInfo"`
	PixKey            *string        `json:"pixKey"`
	AdmissionDate     *string        `json:"admissionDate" validate:"omitempty,datetime=2006-01-02"`
	Role              *string        `json:"role"`
	CBO               *string        `json:"cbo"`
	Salary            *float64       `json:"salary" validate:"omitempty,gte=0"`
	Scale             *string        `json:"scale"`
	PaymentMode       *string        `json:"modoPgto"`
	PaymentPeriod     *string        `json:"periodoPgto"`
	FGTSOptant        *bool          `json:"fgtsOptant"`
	Status            string         `json:"status" validate:"omitempty,oneof=Ativo Afastado Desligado"`
	PerformanceRating *float64       `json:"performanceRating" validate:"omitempty,gte=0,lte=5"`
	PerformanceNotes  *string        `json:"performanceNotes"`
	Relatives         []Relative     `json:"relatives" validate:"dive"`
	CreatedAt         *time.Time     `json:"created_at,omitempty"`
}

type Event struct {
	ID            string     `json:"id,omitempty"`
	EmployeeID    string     `json:"employeeId" validate:"required,uuid"`
	Type          string     `json:"type" validate:"required,oneof=Falta Atraso Advertência Elogio"`
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	Description   string     `json:"description"`
	Justification *string    `json:"justification"`
	Severity      *string    `json:"severity" validate:"omitempty,oneof=Leve Média Grave"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type Document struct {
	ID         string     `json:"id,omitempty"`
	EmployeeID string     `json:"employeeId" validate:"required,uuid"`
	Title      string     `json:"title" validate:"required,max=200"`
	Type       string     `json:"type" validate:"required,oneof=Contrato Declaração Atestado Outro"`
	UploadDate *string    `json:"uploadDate" validate:"omitempty,datetime=2006-01-02"`
	FileURL    *string    `json:"fileUrl" validate:"omitempty,url"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type AppUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
