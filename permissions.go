package fs

// Permissions is the permission-bit portion of a file mode.
type Permissions struct {
	mode uint32
}

// PermissionsFromMode builds Permissions from raw mode bits.
func PermissionsFromMode(mode uint32) Permissions {
	return Permissions{mode: mode}
}

// Readonly reports whether no class (owner, group, others) has write
// permission. ACLs and group membership are not consulted.
func (m Permissions) Readonly() bool {
	return m.mode&0o222 == 0
}

// SetReadonly adds or removes write permission for all classes, the
// equivalent of `chmod a-w` / `chmod a+w`. Only the in-memory value
// changes; use SetPermissions to commit it to a file.
func (m *Permissions) SetReadonly(readonly bool) {
	if readonly {
		m.mode &^= 0o222
	} else {
		m.mode |= 0o222
	}
}

func (m Permissions) Mode() uint32 {
	return m.mode
}

func (m *Permissions) SetMode(mode uint32) {
	m.mode = mode
}
