// Package labs wraps the lab (room) endpoints. Labs are created and edited
// with multipart bodies because they carry a cover image.
package labs

import "github.com/user/labconsole/httpclient"

// Lab is a bookable room.
type Lab struct {
	ID        int    `json:"id"`
	LabName   string `json:"lab_name"`
	LabNumber string `json:"lab_number"`
	Teacher   string `json:"teacher"`
	Rules     string `json:"rules"`
	Image     string `json:"image"`
	Capacity  int    `json:"capacity"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Query filters the lab list.
type Query struct {
	Q         *string `url:"q,omitempty"`
	LabNumber *string `url:"lab_number,omitempty"`
	Teacher   *string `url:"teacher,omitempty"`
	Page      *int    `url:"page,omitempty"`
	Size      *int    `url:"size,omitempty"`
}

// CreateRequest creates a lab. Every field is required, the image included.
type CreateRequest struct {
	LabName   string            `form:"lab_name" validate:"required"`
	LabNumber string            `form:"lab_number" validate:"required"`
	Teacher   string            `form:"teacher" validate:"required"`
	Rules     string            `form:"rules" validate:"required"`
	Capacity  int               `form:"capacity" validate:"gt=0"`
	Image     httpclient.Upload `form:"image" validate:"required"`
}

// UpdateRequest edits a lab. Only non-nil fields are sent.
type UpdateRequest struct {
	LabName   *string
	LabNumber *string
	Teacher   *string
	Rules     *string
	Capacity  *int
	Image     *httpclient.Upload
}
