package globals

import (
	"context"
)

// JwtSecret is assigned from config at startup.
var JwtSecret []byte

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
