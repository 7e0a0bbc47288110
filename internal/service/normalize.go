// Package service implements the application's business logic over the
// repository layer.
package service

import "microblog/internal/models"

// The storage layer hands back timestamps without an explicit zone marker.
// Every timestamp that leaves the service layer is converted to UTC so JSON
// serialization always carries the Z suffix and clients cannot misread it as
// local time.

func normalizePost(post *models.Post) *models.Post {
	if post != nil {
		post.CreatedAt = post.CreatedAt.UTC()
	}
	return post
}

func normalizePosts(posts []*models.Post) []*models.Post {
	for _, post := range posts {
		normalizePost(post)
	}
	return posts
}

func normalizeReply(reply *models.Reply) *models.Reply {
	if reply != nil {
		reply.CreatedAt = reply.CreatedAt.UTC()
	}
	return reply
}

func normalizeReplies(replies []*models.Reply) []*models.Reply {
	for _, reply := range replies {
		normalizeReply(reply)
	}
	return replies
}

func normalizeUser(user *models.User) *models.User {
	if user != nil {
		user.CreatedAt = user.CreatedAt.UTC()
	}
	return user
}
