package google

// OAuth scopes relevant to reading Drive content.
const (
	DriveScope                 = "https://www.googleapis.com/auth/drive"
	DriveReadonlyScope         = "https://www.googleapis.com/auth/drive.readonly"
	DriveMetadataReadonlyScope = "https://www.googleapis.com/auth/drive.metadata.readonly"
	DriveFileScope             = "https://www.googleapis.com/auth/drive.file"
)

// RequiredScopes are the scopes a credential should be issued with to list
// folders and download or export their files.
var RequiredScopes = []string{
	DriveReadonlyScope,
	DriveMetadataReadonlyScope,
}

// DriveContentScopes grant read access to file content. Metadata-only scopes
// are deliberately absent.
var DriveContentScopes = []string{
	DriveScope,
	DriveReadonlyScope,
	DriveFileScope,
}
