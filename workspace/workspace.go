package workspace

import (
	"net/http"
	"os"
	"regexp"

	"github.com/julienschmidt/httprouter"

	"mapmeet/utils"
)

// Config carries the build context derived from the deployment URL.
// A URL that does not match the build pattern yields a zero Config
// with Valid false rather than an error.
type Config struct {
	UserID       string `json:"userId,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	TaskID       string `json:"taskId,omitempty"`
	WorkspaceID  string `json:"workspaceId,omitempty"`
	UploadFolder string `json:"uploadFolder,omitempty"`
	BaseURL      string `json:"baseUrl,omitempty"`
	Valid        bool   `json:"isValidBuildUrl"`
}

// Pattern: {base_url}/builds/{userId}/{projectId}/{taskId}/dist
var buildURLPattern = regexp.MustCompile(`^(https?://[^/]+)/builds/([^/]+)/([^/]+)/([^/]+)/dist`)

// ParseBuildURL derives the workspace identity from a deployment URL.
func ParseBuildURL(rawURL string) Config {
	match := buildURLPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return Config{}
	}

	baseURL, userID, projectID, taskID := match[1], match[2], match[3], match[4]
	return Config{
		UserID:       userID,
		ProjectID:    projectID,
		TaskID:       taskID,
		WorkspaceID:  projectID + "-" + taskID,
		UploadFolder: "resources",
		BaseURL:      baseURL,
		Valid:        true,
	}
}

// FromEnv parses the configured public base URL at startup.
func FromEnv() Config {
	return ParseBuildURL(os.Getenv("PUBLIC_BASE_URL"))
}

type Handler struct {
	Config Config
}

// GetWorkspace handles GET /api/workspace.
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Config)
}
