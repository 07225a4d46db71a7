package employees

import (
	"net/url"
	"strings"
)

// Endpoints builds the upstream URLs of the employee API.
type Endpoints struct {
	BaseURL    string
	APIVersion string
	Entity     string
}

// NewEndpoints returns Endpoints for baseURL, making sure it ends with a slash.
func NewEndpoints(baseURL, apiVersion, entity string) Endpoints {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return Endpoints{
		BaseURL:    baseURL,
		APIVersion: strings.Trim(apiVersion, "/"),
		Entity:     strings.Trim(entity, "/"),
	}
}

// Collection is the URL listing every record, e.g. .../api/v1/employees.
func (e Endpoints) Collection() string {
	return e.BaseURL + e.APIVersion + "/" + e.Entity + "s"
}

// Item is the URL of a single record.
func (e Endpoints) Item(id string) string {
	return e.BaseURL + e.APIVersion + "/" + e.Entity + "/" + url.PathEscape(id)
}

func (e Endpoints) Create() string {
	return e.BaseURL + e.APIVersion + "/create"
}

func (e Endpoints) Delete(id string) string {
	return e.BaseURL + e.APIVersion + "/delete/" + url.PathEscape(id)
}
