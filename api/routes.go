package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// ElectionsEndpoint is the endpoint for creating elections (admin) and
	// listing ongoing elections (voter)
	ElectionsEndpoint = "/elections"
	// ElectionURLParam is the URL parameter carrying the election ID
	ElectionURLParam = "electionId"
	// BallotEndpoint returns the ballot of an ongoing election
	BallotEndpoint = "/elections/{" + ElectionURLParam + "}/ballot"
	// PublicKeyEndpoint returns the election public key for client-side
	// selection encryption
	PublicKeyEndpoint = "/elections/{" + ElectionURLParam + "}/key"
	// OTPRequestEndpoint issues a one-time voting code
	OTPRequestEndpoint = "/elections/{" + ElectionURLParam + "}/otp"
	// OTPVerifyEndpoint exchanges a one-time code for ballot access
	OTPVerifyEndpoint = "/elections/{" + ElectionURLParam + "}/otp/verify"
	// VotesEndpoint is the endpoint for submitting a ballot
	VotesEndpoint = "/elections/{" + ElectionURLParam + "}/votes"
	// VoteStatusEndpoint reports whether the voter has already voted
	VoteStatusEndpoint = "/elections/{" + ElectionURLParam + "}/votes/status"
	// StartEndpoint and EndEndpoint are the admin lifecycle transitions
	StartEndpoint = "/elections/{" + ElectionURLParam + "}/start"
	EndEndpoint   = "/elections/{" + ElectionURLParam + "}/end"
	// ResultsEndpoint declares results (admin) and serves them (public)
	ResultsEndpoint = "/elections/{" + ElectionURLParam + "}/results"
)
