package dto

// NewsAPIResponse mirrors the NewsAPI /v2/everything payload.
type NewsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []NewsAPIArticle `json:"articles"`
}

// NewsAPIArticle is one article entry from NewsAPI.
type NewsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}
