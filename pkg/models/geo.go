package models

// IdentityResponse is the body returned by the identity service.
// The address lives in the "query" field (ip-api convention).
type IdentityResponse struct {
	Query string `json:"query"`
}

// GeoResponse is the body returned by the geolocation service.
// Status is "success" when the lookup worked; any other value means the
// record must be ignored.
type GeoResponse struct {
	Status     string `json:"status"`
	Timezone   string `json:"timezone"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}
