package service

import (
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group, names map[string]string) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, id := range g.Members {
		members[i] = &api.Member{UserID: id, Name: nameOr(names, id)}
	}

	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedBy: g.CreatedBy,
		JoinCode:  g.JoinCode,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense, names map[string]string) *api.Expense {
	splits := make([]*api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.Split{
			UserID:     s.UserID,
			UserName:   nameOr(names, s.UserID),
			Amount:     s.Amount.Float64(),
			Percentage: s.Percentage,
		}
	}

	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount.Float64(),
		SplitPolicy: string(e.SplitPolicy),
		PaidByID:    e.PaidByID,
		PaidByName:  nameOr(names, e.PaidByID),
		Category:    e.Category,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		Splits:      splits,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount.Float64(),
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

// nameOr returns the resolved name of id, or unknownName. A nil map is allowed.
func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownName
}
