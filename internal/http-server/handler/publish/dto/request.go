package dto

type PublishRequest struct {
	File    interface{} `form:"file" binding:"required"`
	Message string      `form:"message" validate:"omitempty,max=280"`
}
