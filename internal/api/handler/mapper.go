package handler

import (
	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
}

func toAccountPatch(req patchUserRequest) ports.AccountPatch {
	return ports.AccountPatch{
		Username: req.Username,
		Password: req.Password,
		Age:      req.Age,
	}
}

func toAdminUpdate(req adminUpdateUserRequest) ports.AdminAccountUpdate {
	return ports.AdminAccountUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}
}

// --- Domain → Response ---

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Age:       a.Age,
		Role:      a.Role.String(),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toUserPage(r *ports.ListAccountsResult) userPageResponse {
	items := make([]userResponse, 0, len(r.Items))
	for _, a := range r.Items {
		items = append(items, toUserResponse(a))
	}
	return userPageResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Size:       r.Size,
		TotalPages: r.TotalPages,
	}
}

func toWalletResponses(ws []domain.Wallet) []walletResponse {
	out := make([]walletResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, walletResponse{WalletID: w.WalletID, UserID: w.UserID, CurrentBalance: w.CurrentBalance})
	}
	return out
}

func toCascadeFailureResponses(fs []domain.CascadeFailure) []cascadeFailureResponse {
	out := make([]cascadeFailureResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, cascadeFailureResponse{
			UserID:     f.UserID,
			Action:     string(f.Action),
			Reason:     f.Reason,
			OccurredAt: f.OccurredAt,
		})
	}
	return out
}

// toAdminActionResponse folds the cascade outcome into the response. A failed
// propagation is reported as a warning; the local change stands.
func toAdminActionResponse(message string, r *ports.AdminActionResult) adminActionResponse {
	resp := adminActionResponse{Message: message, WalletSynced: true}
	if r.Account != nil {
		u := toUserResponse(r.Account)
		resp.User = &u
	}
	if r.Cascade != nil && !r.Cascade.OK() {
		resp.WalletSynced = false
		resp.Warning = cascadeWarning(r.Cascade)
	}
	return resp
}

func cascadeWarning(o *domain.CascadeOutcome) string {
	return "wallet service was not updated (" + string(o.Action) + "): " + o.Reason
}
