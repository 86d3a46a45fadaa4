package auth

import "context"

type PermissionChecker interface {
	CanRedeemVoucher(userPermissions []string) bool
	CanApproveRequest(userPermissions []string) bool
	CanRejectRequest(userPermissions []string) bool
	CanMarkPaid(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

// ApproverDirectory answers "who can act on a paid request". The approver
// notifier uses it to resolve recipients when a request is marked paid.
type ApproverDirectory interface {
	ListUsersWithCapability(capability string) ([]*User, error)
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission, CapAdmin}), nil
}

func (c *DefaultPermissionChecker) CanRedeemVoucher(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{CapRedeemVoucher, CapAdmin})
}

func (c *DefaultPermissionChecker) CanApproveRequest(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{CapApproveRequest, CapAdmin})
}

func (c *DefaultPermissionChecker) CanRejectRequest(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{CapRejectRequest, CapAdmin})
}

func (c *DefaultPermissionChecker) CanMarkPaid(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{CapMarkPaid, CapAdmin})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{CapAdmin})
}
