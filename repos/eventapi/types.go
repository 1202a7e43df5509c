package eventapi

const (
	CreateUserProcedure  = "/events.v1.UserService/CreateUser"
	FindUserProcedure    = "/events.v1.UserService/FindUser"
	CreateTagProcedure   = "/events.v1.TagService/CreateTag"
	FindTagProcedure     = "/events.v1.TagService/FindTag"
	CreateEventProcedure = "/events.v1.EventService/CreateEvent"
	FindEventProcedure   = "/events.v1.EventService/FindEvent"
)

type User struct {
	ID   string `json:"id" firestore:"Id"`
	Name string `json:"name" firestore:"Name"`
}

type Tag struct {
	ID      string   `json:"id" firestore:"Id"`
	Name    string   `json:"name" firestore:"Name"`
	Aliases []string `json:"aliases" firestore:"Aliases"`
}

type Event struct {
	ID          string   `json:"id" firestore:"Id"`
	AuthorID    string   `json:"authorId" firestore:"AuthorId"`
	Title       string   `json:"title" firestore:"Title"`
	Description string   `json:"description" firestore:"Description"`
	TagIDs      []string `json:"tagIds" firestore:"TagIds"`
	Attending   bool     `json:"attending" firestore:"Attending"`
	ImageIDs    []string `json:"imageIds" firestore:"ImageIds"`
}

type CreateUserRequest struct {
	Name string `json:"name"`
}

type CreateTagRequest struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// CreateEventRequest leaves Description and Attending nil to take the
// server defaults.
type CreateEventRequest struct {
	AuthorID    string   `json:"authorId"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	TagIDs      []string `json:"tagIds"`
	Attending   *bool    `json:"attending,omitempty"`
}

type FindRequest struct {
	ID string `json:"id"`
}
