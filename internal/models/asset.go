package models

// UploadedAsset describes a stored file. OwnerID is nil for cloud uploads.
type UploadedAsset struct {
	OwnerID    *int64 `json:"user_id,omitempty"`
	StorageKey string `json:"file_name"`
	Location   string `json:"location"`
}

type GithubProfile struct {
	Name        *string `json:"name"`
	PublicRepos int     `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
}

// MergedProfile joins a local user with the profile fetched from the
// external provider.
type MergedProfile struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Github   GithubFields `json:"github"`
}

type GithubFields struct {
	Name      *string `json:"name"`
	Repo      int     `json:"repo"`
	Followers int     `json:"followers"`
	Following int     `json:"following"`
}
