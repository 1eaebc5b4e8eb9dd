package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// PostDB implements repository.PostRepository. Obtain one from DB.Posts().
type PostDB struct {
	conn *sql.DB
}

// Create inserts a new post with its author snapshot.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()
	post.Likes = []model.Like{}
	post.Comments = []model.Comment{}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, text, name, avatar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID, post.UserID, post.Text, post.Name, post.Avatar, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}
	return nil
}

// GetByID returns the post with likes and comments populated.
func (db *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, text, name, avatar, created_at FROM posts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if err := db.loadPostChildren(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first.
func (db *PostDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	query := `SELECT id, user_id, text, name, avatar, created_at
	          FROM posts ORDER BY created_at DESC, id DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}

	for i := range posts {
		if err := db.loadPostChildren(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// Delete removes a post; likes and comments cascade.
// Authorization (author-only) is the service's job — by the time this runs,
// the caller has already read the post and checked ownership.
func (db *PostDB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}

// AddLike records that the user liked the post. The (post_id, user_id)
// primary key makes a second like from the same user a constraint violation,
// surfaced as Conflict — the check and the insert are one atomic statement,
// not a read followed by a write.
func (db *PostDB) AddLike(ctx context.Context, postID, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)`,
		postID, userID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("post already liked by this user")
		}
		return fmt.Errorf("sqlite: inserting like on post %s: %w", postID, err)
	}
	return nil
}

// RemoveLike deletes the user's like. Unliking a post never liked is
// NotFound — the asymmetry with AddLike's Conflict is deliberate surface
// behavior.
func (db *PostDB) RemoveLike(ctx context.Context, postID, userID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like on post %s: %w", postID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting like on post %s: %w", postID, err)
	}
	if n == 0 {
		return apperror.NotFound("like", postID+"/"+userID)
	}
	return nil
}

// AddComment inserts a comment on the post, generating its ID.
func (db *PostDB) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO post_comments (id, post_id, user_id, text, name, avatar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID, postID, comment.UserID, comment.Text, comment.Name,
		comment.Avatar, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment on post %s: %w", postID, err)
	}
	return nil
}

// GetComment reads one comment, scoped to its post.
func (db *PostDB) GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error) {
	var c model.Comment
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, text, name, avatar, created_at
		 FROM post_comments WHERE id = ? AND post_id = ?`,
		commentID, postID,
	).Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", commentID)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", commentID, err)
	}
	return &c, nil
}

// RemoveComment deletes one comment off the post; NotFound if absent.
func (db *PostDB) RemoveComment(ctx context.Context, postID, commentID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM post_comments WHERE id = ? AND post_id = ?`,
		commentID, postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", commentID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", commentID, err)
	}
	if n == 0 {
		return apperror.NotFound("comment", commentID)
	}
	return nil
}

// loadPostChildren fills likes (oldest first, stable like counts) and
// comments (newest first, like the feed).
func (db *PostDB) loadPostChildren(ctx context.Context, p *model.Post) error {
	p.Likes = []model.Like{}
	p.Comments = []model.Comment{}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, created_at FROM post_likes
		 WHERE post_id = ? ORDER BY created_at ASC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading likes for post %s: %w", p.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l model.Like
		if err := rows.Scan(&l.UserID, &l.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning like: %w", err)
		}
		p.Likes = append(p.Likes, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: loading likes for post %s: %w", p.ID, err)
	}

	commentRows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, text, name, avatar, created_at
		 FROM post_comments WHERE post_id = ?
		 ORDER BY created_at DESC, id DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading comments for post %s: %w", p.ID, err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var c model.Comment
		if err := commentRows.Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		p.Comments = append(p.Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return fmt.Errorf("sqlite: loading comments for post %s: %w", p.ID, err)
	}

	return nil
}
