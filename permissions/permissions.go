// Package permissions maps principal roles onto named capabilities. The
// gate is re-checked on every mutating entry point; callers must never echo
// the capability name back to the client.
package permissions

// Capabilities checked before mutating actions.
const (
	ManageBlogPosts = "manage_blog_posts"
	UploadFiles     = "upload_files"
	ManageRanklists = "manage_ranklists"
	ManageUsers     = "manage_users"
)

// DeniedMessage is the only text a failed gate may surface.
const DeniedMessage = "You do not have permission to perform this action"

var roleGrants = map[string]map[string]bool{
	"admin": {
		ManageBlogPosts: true,
		UploadFiles:     true,
		ManageRanklists: true,
		ManageUsers:     true,
	},
	"moderator": {
		ManageBlogPosts: true,
		UploadFiles:     true,
	},
	"member": {},
}

// Allowed reports whether the given role holds the named capability.
// Unknown roles and unknown capabilities hold nothing.
func Allowed(role, capability string) bool {
	grants, ok := roleGrants[role]
	if !ok {
		return false
	}
	return grants[capability]
}
