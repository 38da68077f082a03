package dto

type CreateSupplierRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,min=10,max=20"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,min=2,max=100"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=100"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,min=10,max=20"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,min=2,max=100"`
	IsActive      *bool   `json:"is_active"`
}

type SupplierResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	ContactPerson *string `json:"contact_person"`
	IsActive      bool    `json:"is_active"`
}
