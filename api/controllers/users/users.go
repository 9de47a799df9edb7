package users

import (
	"net/http"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	"github.com/angelmondragon/pokeshop-api/api/validators"
	"github.com/angelmondragon/pokeshop-api/internal/users"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

// CreateRules validates POST /users. PUT uses the partial form.
var CreateRules = validators.RuleSet{
	{Field: "first_name", Kind: validators.String, Required: true},
	{Field: "last_name", Kind: validators.String, Required: true},
	{Field: "age", Kind: validators.Int, Required: true, Min: validators.Bound(18)},
}

type messageResponse struct {
	Message string `json:"message"`
}

// List returns every user.
func List(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Get returns a single user.
func Get(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "user")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// Create validates the body and inserts a user.
func Create(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := validators.BindJSON(r, CreateRules)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), users.CreateUserDTOFromValues(values))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithRecord(r.Context(), "user", user.ID)
		logg.Info(ctx, "user.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// Update applies the fields present in the body.
func Update(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	rules := CreateRules.Partial()
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "user")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		values, err := validators.BindJSON(r, rules)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), id, values)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// CheckInactive deactivates a user that has never placed an order.
func CheckInactive(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "user")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CheckInactive(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "user_id", id)
		logg.Info(ctx, "user.deactivated")
		responses.WriteSuccess(w, messageResponse{Message: "user marked inactive"})
	}
}

func Delete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "user")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "user_id", id)
		logg.Info(ctx, "user.deleted")
		responses.WriteSuccess(w, messageResponse{Message: "user deleted"})
	}
}
