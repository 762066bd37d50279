package dto

type CreateProfileRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type UpdateProfileRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

// Patch builds the sparse update from the allow-listed profile fields (email,
// displayName, avatarUrl) that are present and non-null.
func (r *UpdateProfileRequest) Patch() map[string]interface{} {
	patch := map[string]interface{}{}
	if r.Email != nil {
		patch["email"] = *r.Email
	}
	if r.DisplayName != nil {
		patch["displayName"] = *r.DisplayName
	}
	if r.AvatarURL != nil {
		patch["avatarUrl"] = *r.AvatarURL
	}
	return patch
}

type IdentityResponse struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
