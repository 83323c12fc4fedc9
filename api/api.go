package api

const (
	HealthEndpoint = "/health"
	ReportEndpoint = "/report"
)

// Report categories offered by the bot. The store layer does not
// enforce the enum; the map front end groups by these values.
const (
	CategoryFire      = "fire"
	CategoryVolunteer = "volunteer"
	CategoryBrigade   = "brigade"
	CategoryPlane     = "plane"
)

// Report is one incident record stored for map display.
type Report struct {
	Category  string  `json:"category"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	User      string  `json:"user"`      // display name, username or id_<numeric id>.
	Timestamp string  `json:"timestamp"` // ISO-8601, producer-supplied.
	Action    string  `json:"action"`    // currently always "active".
}

type StatusResponse struct {
	Status string `json:"status"`
	Id     string `json:"id,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Firebase bool   `json:"firebase"`
	Message  string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
