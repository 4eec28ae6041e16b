package directions

// ComputeRoutesRequest is the JSON body sent to computeRoutes.
type ComputeRoutesRequest struct {
	Origin      Waypoint `json:"origin"`
	Destination Waypoint `json:"destination"`
	TravelMode  string   `json:"travelMode"`
}

// Waypoint identifies a place by its place ID.
type Waypoint struct {
	PlaceID string `json:"placeId"`
}

// ComputeRoutesResponse holds the masked fields of a computeRoutes answer.
type ComputeRoutesResponse struct {
	Routes []Route `json:"routes"`
}

// Route is one candidate route.
type Route struct {
	// Duration is decimal seconds with an "s" suffix, e.g. "5523s".
	Duration       string   `json:"duration"`
	DistanceMeters int      `json:"distanceMeters"`
	Polyline       Polyline `json:"polyline"`
	Legs           []Leg    `json:"legs"`
}

type Polyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}

type Leg struct {
	StartLocation Location `json:"startLocation"`
	EndLocation   Location `json:"endLocation"`
}

type Location struct {
	LatLng LatLng `json:"latLng"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// errorBody is the service's error envelope.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
