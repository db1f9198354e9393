package dto

// ArticleSource identifies the publisher of an article.
type ArticleSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is a news article in the newsapi.org shape, which the frontend consumes.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

// NewsAPIResponse is the body of a newsapi.org /v2/everything response.
type NewsAPIResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}
