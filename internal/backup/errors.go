package backup

import "errors"

// Fatal import failure classes. These three are the only conditions that
// abort an import outright; everything else is reported per row or as a skip
// inside the ImportResult.
var (
	// ErrCorruptArchive means the file could not be decompressed. The user
	// remediation is to re-download or re-copy the backup file.
	ErrCorruptArchive = errors.New("backup archive is corrupt")

	// ErrUnrecognizedSchema means the decompressed bytes do not parse as a
	// backup envelope. The file is most likely not a backup from this app.
	ErrUnrecognizedSchema = errors.New("file is not a recognized backup")

	// ErrIncompatibleVersion means the backup's schema major version differs
	// from this importer's. Minor version differences are tolerated.
	ErrIncompatibleVersion = errors.New("backup schema version is incompatible")
)
