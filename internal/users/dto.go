package users

import "github.com/angelmondragon/pokeshop-api/pkg/db/models"

// UserDTO is the transport shape of a user.
type UserDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int64  `json:"age"`
	Active    bool   `json:"active"`
}

// CreateUserDTO holds the validated fields for a new user.
type CreateUserDTO struct {
	FirstName string
	LastName  string
	Age       int64
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Active:    u.Active,
	}
}

func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// CreateUserDTOFromValues reads the coerced body produced by the create rule set.
func CreateUserDTOFromValues(values map[string]any) CreateUserDTO {
	dto := CreateUserDTO{}
	dto.FirstName, _ = values["first_name"].(string)
	dto.LastName, _ = values["last_name"].(string)
	dto.Age, _ = values["age"].(int64)
	return dto
}
