package routes

import (
	"net/http"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
)

// FieldProfile describes a single column of a record set.
type FieldProfile struct {
	ID       string `json:"@id,omitempty"`
	Type     string `json:"@type,omitempty"`
	Name     string `json:"name,omitempty"`
	DataType string `json:"dataType,omitempty"`
}

// RecordSetProfile describes a tabular view over distributed files.
type RecordSetProfile struct {
	ID    string         `json:"@id,omitempty"`
	Type  string         `json:"@type,omitempty"`
	Name  string         `json:"name,omitempty"`
	Field []FieldProfile `json:"field" jsonschema:"required"`
}

// FileObjectProfile describes a downloadable file of the dataset.
type FileObjectProfile struct {
	ID             string `json:"@id" jsonschema:"required"`
	Type           string `json:"@type,omitempty"`
	Name           string `json:"name,omitempty"`
	ContentURL     string `json:"contentUrl,omitempty"`
	EncodingFormat string `json:"encodingFormat,omitempty"`
	SHA256         string `json:"sha256,omitempty"`
}

// DatasetProfile is the document shape expected at registration.
type DatasetProfile struct {
	Context      any                 `json:"@context" jsonschema:"required"`
	Type         any                 `json:"@type" jsonschema:"required"`
	ID           string              `json:"@id,omitempty"`
	Name         string              `json:"name,omitempty"`
	Description  string              `json:"description,omitempty"`
	License      string              `json:"license,omitempty"`
	URL          string              `json:"url,omitempty"`
	Distribution []FileObjectProfile `json:"distribution,omitempty"`
	RecordSet    []RecordSetProfile  `json:"recordSet,omitempty"`
}

// GetDatasetProfileHandler returns the JSON Schema of the registration
// document so clients can validate before submitting.
func GetDatasetProfileHandler(c echo.Context) error {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&DatasetProfile{})
	return c.JSON(http.StatusOK, schema)
}
