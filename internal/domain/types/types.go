package types

type ServiceMode string

// Fare API - derives trip features, scores them with the loaded model and serves quotes
// Fare Recorder - consumes prediction events and keeps the queryable prediction history
const (
	FareAPI      ServiceMode = "fare-api"
	FareRecorder ServiceMode = "fare-recorder"
)

func (m ServiceMode) String() string {
	return string(m)
}

// ModelSource selects where the scoring model comes from
type ModelSource string

const (
	ModelSourceFile   ModelSource = "file"
	ModelSourceRemote ModelSource = "remote"
)

// Event routing keys on the fare exchange
const (
	EventFarePredicted = "fare.predicted"
)
