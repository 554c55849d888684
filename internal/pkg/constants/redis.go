package constants

// Redis key formats
const (
	KeySession      = "session:%s"       // Format: session:{token}
	KeyTripLocation = "trip:location:%s" // Format: trip:location:{trip_id}
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "gh"
	FieldTimestamp = "ts"
)
