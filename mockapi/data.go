package mockapi

import "sync"

// User is a user resource.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post is a post resource.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Avatar describes an uploaded avatar.
type Avatar struct {
	UserID      int    `json:"userId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Caption     string `json:"caption,omitempty"`
}

type dataset struct {
	mu     sync.RWMutex
	users  []User
	posts  []Post
	nextID int
}

func newDataset() *dataset {
	d := &dataset{
		users: []User{
			{ID: 1, Name: "Leanne Graham", Username: "bret", Email: "leanne@example.com"},
			{ID: 2, Name: "Ervin Howell", Username: "antonette", Email: "ervin@example.com"},
			{ID: 42, Name: "Arthur Dent", Username: "arthur", Email: "arthur@example.com"},
		},
		posts: []Post{
			{ID: 1, UserID: 1, Title: "first", Body: "hello"},
			{ID: 2, UserID: 1, Title: "second", Body: "again"},
			{ID: 3, UserID: 42, Title: "towel", Body: "always know where it is"},
		},
	}
	d.nextID = len(d.posts) + 1
	return d
}

func (d *dataset) listUsers() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

func (d *dataset) user(id int) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// listPosts returns posts, filtered to userID when it is non-zero.
func (d *dataset) listPosts(userID int) []Post {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Post, 0, len(d.posts))
	for _, p := range d.posts {
		if userID == 0 || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (d *dataset) addPost(p Post) Post {
	d.mu.Lock()
	defer d.mu.Unlock()
	p.ID = d.nextID
	d.nextID++
	d.posts = append(d.posts, p)
	return p
}
