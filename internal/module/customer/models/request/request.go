package request

type CustomerDetails struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=64"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Street      string `json:"street" validate:"omitempty,max=255"`
	City        string `json:"city" validate:"omitempty,max=255"`
	PostalCode  string `json:"postal_code" validate:"omitempty,max=32"`
	Country     string `json:"country" validate:"omitempty,max=64"`
	Password    string `json:"password" validate:"omitempty,min=8,max=72"`
}

type ApplyResolution struct {
	Action  string          `json:"action" validate:"required,oneof=update authenticate use_different_email"`
	Details CustomerDetails `json:"details" validate:"required"`
}
