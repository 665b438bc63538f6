package web

import (
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/contacts/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/contacts/internal/domain/model"
)

// navItems lists the side navigation in display order.
var navItems = []vm.NavItemViewModel{
	{Label: "Home", Path: "/"},
	{Label: "Users", Path: "/users"},
	{Label: "Posts", Path: "/posts"},
}

// toNavViewModels marks the item matching currentPath as active.
func toNavViewModels(currentPath string) []vm.NavItemViewModel {
	items := make([]vm.NavItemViewModel, len(navItems))
	for i, item := range navItems {
		item.Active = item.Path == currentPath
		items[i] = item
	}
	return items
}

// navPathFromParam maps the /nav/{url} segment to a page path: "" and "home"
// mean the landing page, anything else is taken as a top-level page name.
func navPathFromParam(param string) string {
	param = strings.Trim(param, "/")
	if param == "" || param == "home" {
		return "/"
	}
	return "/" + param
}

// toUserRowViewModels converts domain Users to UserRowViewModels.
func toUserRowViewModels(users []model.User) []vm.UserRowViewModel {
	vms := make([]vm.UserRowViewModel, 0, len(users))
	for _, u := range users {
		vms = append(vms, toUserRowViewModel(u))
	}
	return vms
}

func toUserRowViewModel(u model.User) vm.UserRowViewModel {
	phone := u.Phone
	if phone == "" {
		phone = "-"
	}
	return vm.UserRowViewModel{
		ID:       u.ID,
		Href:     "/users/" + strconv.FormatInt(u.ID, 10),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    phone,
	}
}

// toPostCardViewModels converts joined posts to PostCardViewModels with
// bodies rendered as sanitized markdown.
func toPostCardViewModels(posts []model.PostWithAuthor) []vm.PostCardViewModel {
	vms := make([]vm.PostCardViewModel, 0, len(posts))
	for _, p := range posts {
		vms = append(vms, toPostCardViewModel(p))
	}
	return vms
}

// toUserDetailViewModel builds the contact page. The user's own posts carry
// no author join, so the contact fills that in.
func toUserDetailViewModel(u model.User, posts []model.Post) vm.UserDetailViewModel {
	cards := make([]vm.PostCardViewModel, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, toPostCardViewModel(model.PostWithAuthor{
			Post:           p,
			AuthorName:     u.Name,
			AuthorUsername: u.Username,
		}))
	}
	return vm.UserDetailViewModel{User: toUserRowViewModel(u), Posts: cards}
}

func toPostCardViewModel(p model.PostWithAuthor) vm.PostCardViewModel {
	return vm.PostCardViewModel{
		ID:             p.ID,
		AnchorID:       "post-" + strconv.FormatInt(p.ID, 10),
		Title:          p.Title,
		AuthorName:     p.AuthorName,
		AuthorUsername: p.AuthorUsername,
		BodyHTML:       RenderMarkdown(p.Body),
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		CreatedAtLabel: p.CreatedAt.UTC().Format("Jan 2, 2006"),
	}
}
