package msg

// configure
const (
	// EmptyURL asks the user to type a server url
	EmptyURL = "you need to type a server url"
	// InvalidURL indicates a malformed server url
	InvalidURL = "invalid server url"
	// EmptyCredentials indicates no credentials
	EmptyCredentials = "no credentials available"
	// MissingCredentials asks the user to provide either a token or a username and password
	MissingCredentials = "either a token or a username and password are required"
)

// upload workflow
const (
	// FailedToObtainToken indicates that no token could be minted
	FailedToObtainToken = "failed to obtain an access token"
	// FailedToResolveFolder indicates that the destination folder could not be resolved
	FailedToResolveFolder = "failed to resolve folder %q"
	// FailedToUpload indicates the upload failure
	FailedToUpload = "failed to upload %s"
	// FailedToMonitor indicates that the unpack job did not complete
	FailedToMonitor = "failed to await the unpack job of upload %d"
	// FailedToFindBaseline indicates that no previous upload to reuse was found
	FailedToFindBaseline = "failed to find a previous upload of %s"
	// FailedToTriggerScan indicates that the scan jobs could not be scheduled
	FailedToTriggerScan = "failed to trigger the scan of upload %d"
)

// server
const (
	// UnableToCheckServer indicates that the server version could not be fetched
	UnableToCheckServer = "unable to check the server version"
	// UnsupportedServerVersion warns that the server API is older than the oldest supported one
	UnsupportedServerVersion = "server API version %s is older than the minimum supported version %s"
)
