package endpoint

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authkit/authkit/pkg/credentials"
)

// Mount returns a chi router exposing every endpoint as a POST route, for
// embedding the API in an existing chi application instead of running it as
// pass-through middleware. Routes respond with the JSON receipt when no
// redirect pair is configured. Apply the session middleware on the parent
// router so the login/logout reactions see the request's session.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(engine.SessionMiddleware)
//	r.Mount("/auth", api.Mount(errorHandler))
func (a *API) Mount(onError ErrorHandler) chi.Router {
	r := chi.NewRouter()

	for name, ep := range a.endpoints {
		r.Post("/"+name, a.mountHandler(ep, onError))
	}

	return r
}

func (a *API) mountHandler(ep *Endpoint, onError ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := parseCredentials(r)
		if err != nil {
			onError(w, r, err)
			return
		}

		_, receipt, err := ep.Run(w, r, c)
		if err != nil {
			onError(w, r, err)
			return
		}

		if ep.redirects == nil {
			WriteReceipt(w, receipt)
		}
	}
}

// WriteReceipt writes the receipt wire shape as a JSON response body.
func WriteReceipt(w http.ResponseWriter, receipt *credentials.Receipt) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(receipt)
}
