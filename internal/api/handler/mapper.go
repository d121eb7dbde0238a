package handler

import (
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// --- Request → Service input ---

func toSignUpInput(req signUpRequest) ports.SignUpInput {
	return ports.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Role,
	}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		ProfilePhoto: req.ProfilePhoto,
		Roles:        req.Roles,
	}
}

func toResumeInput(req resumeRequest) ports.ResumeInput {
	return ports.ResumeInput{
		UserID:       req.UserID,
		Title:        req.Title,
		PersonalInfo: req.PersonalInfo,
		Summary:      req.Summary,
		Educations:   req.Educations,
		Experiences:  req.Experiences,
		Skills:       req.Skills,
		TemplateName: req.TemplateName,
		Public:       req.IsPublic,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Roles:        u.Roles.Strings(),
		ProfilePhoto: u.ProfilePhoto,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		Type:      "Bearer",
		ExpiresAt: s.ExpiresAt,
		ID:        s.User.ID,
		Username:  s.User.Username,
		Email:     s.User.Email,
		Roles:     s.User.Roles.Strings(),
	}
}

func toAuthStatus(p *domain.Principal) authStatusResponse {
	if p == nil {
		return authStatusResponse{}
	}
	return authStatusResponse{
		Authenticated: true,
		ID:            p.ID,
		Username:      p.Username,
		Roles:         p.Roles.Strings(),
		IsAdmin:       p.IsAdmin(),
	}
}
