package dto

// RegisterRequestDTO is sent as multipart/form-data together with the
// optional "ktp" ID card picture.
type RegisterRequestDTO struct {
	NIK      string `form:"nik" validate:"required,numeric,len=16"`
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=72"`
	Address  string `form:"address" validate:"max=255"`
	Phone    string `form:"phone" validate:"required,min=8,max=20"`
}

type RegisterResponseDTO struct {
	Message string `json:"message" example:"Registration received, waiting for verification"`
	ID      int    `json:"id" example:"12"`
}

type LoginRequestDTO struct {
	Identity string `json:"identity" validate:"required" example:"3201010101010001"`
	Password string `json:"password" validate:"required" example:"rahasia123"`
	Role     string `json:"role" validate:"omitempty,oneof=member admin" example:"member"`
}

type LoginResponseDTO struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token"`
	Role    string `json:"role" example:"member"`
	Name    string `json:"name" example:"Siti Aminah"`
	Status  string `json:"status" example:"verified"`
}
