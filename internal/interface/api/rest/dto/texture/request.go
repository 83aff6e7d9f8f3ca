package texture

type (
	RenameRequest struct {
		NewName string `json:"new_name"`
	}
	// PrivacyRequest with Public unset toggles the current visibility.
	PrivacyRequest struct {
		Public *bool `json:"public"`
	}
)
