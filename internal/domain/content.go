package domain

import "time"

type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blogId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type Testimonial struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Message     string    `json:"message"`
	Rating      int       `json:"rating"`
	PhotoURL    string    `json:"photoUrl"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Blog struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"coverImage"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Career struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Department     string    `json:"department"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employmentType"`
	Description    string    `json:"description"`
	Open           bool      `json:"open"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Application struct {
	ID          string    `json:"id"`
	CareerID    string    `json:"careerId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ResumeURL   string    `json:"resumeUrl"`
	CoverLetter string    `json:"coverLetter"`
	CreatedAt   time.Time `json:"createdAt"`
}
