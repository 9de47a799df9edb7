package orders

import (
	"net/http"

	"github.com/angelmondragon/pokeshop-api/api/responses"
	"github.com/angelmondragon/pokeshop-api/api/validators"
	"github.com/angelmondragon/pokeshop-api/internal/orders"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

var CreateRules = validators.RuleSet{
	{Field: "price", Kind: validators.Numeric, Required: true},
	{Field: "date", Kind: validators.Date, Required: true},
	{Field: "user_id", Kind: validators.Int, Required: true, Min: validators.Bound(1)},
}

func List(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListByUser serves GET /users/{id}/orders. An unknown or malformed user id yields an
// empty list.
func ListByUser(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseIDParam(r, "id", "user")
		if err != nil {
			responses.WriteSuccess(w, []orders.OrderDTO{})
			return
		}

		list, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func Get(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create validates the body and records an order for an existing user.
func Create(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := validators.BindJSON(r, CreateRules)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderDTOFromValues(values))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"order_id": order.ID,
			"user_id":  order.UserID,
		})
		logg.Info(ctx, "order.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func Update(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	rules := CreateRules.Partial()
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		values, err := validators.BindJSON(r, rules)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), id, values)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Delete removes an order and echoes the deleted row.
func Delete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id", "order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "order_id", id)
		logg.Info(ctx, "order.deleted")
		responses.WriteSuccess(w, deleted)
	}
}
