package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the draft/published lifecycle of a post. Publishing is
// one-way: a published post can never return to draft.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// PostVisibility is the tri-state access policy of a post.
type PostVisibility string

const (
	// VisibilityEveryone makes the post readable by anyone.
	VisibilityEveryone PostVisibility = "everyone"
	// VisibilityMutual restricts the post to accepted neighbors of the author.
	VisibilityMutual PostVisibility = "mutual"
	// VisibilityMe restricts the post to the author alone.
	VisibilityMe PostVisibility = "me"
)

// DefaultSubject is the "no subject chosen" sentinel.
const DefaultSubject = "주제 선택 안 함"

// DefaultKeyword is the keyword bucket for unmapped subjects.
const DefaultKeyword = "default"

// Subjects is the fixed vocabulary a post's subject is drawn from.
var Subjects = []string{
	DefaultSubject,
	"문학·책", "영화", "미술·디자인", "공연·전시",
	"음악", "드라마", "스타·연예인", "만화·애니", "방송",
	"일상·생각", "육아·결혼", "반려동물", "좋은글·이미지",
	"패션·미용", "인테리어/DIY", "요리·레시피", "상품리뷰", "원예/재배",
	"게임", "스포츠", "사진", "자동차", "취미",
	"국내여행", "세계여행", "맛집",
	"IT/컴퓨터", "사회/정치", "건강/의학",
	"비즈니스/경제", "어학/외국어", "교육/학문",
}

// Keywords is the coarse bucket vocabulary derived from Subjects.
var Keywords = []string{
	DefaultKeyword,
	"엔터테인먼트/예술",
	"생활/노하우/쇼핑",
	"취미/여가/여행",
	"지식/동향",
}

// keywordMapping assigns every subject to its bucket. Subjects absent
// from the table fall into DefaultKeyword.
var keywordMapping = map[string][]string{
	"엔터테인먼트/예술": {"문학·책", "영화", "미술·디자인", "공연·전시", "음악", "드라마", "스타·연예인", "만화·애니", "방송"},
	"생활/노하우/쇼핑": {"일상·생각", "육아·결혼", "반려동물", "좋은글·이미지", "패션·미용", "인테리어/DIY", "요리·레시피", "상품리뷰", "원예/재배"},
	"취미/여가/여행":  {"게임", "스포츠", "사진", "자동차", "취미", "국내여행", "세계여행", "맛집"},
	"지식/동향":     {"IT/컴퓨터", "사회/정치", "건강/의학", "비즈니스/경제", "어학/외국어", "교육/학문"},
}

var subjectToKeyword = func() map[string]string {
	m := make(map[string]string)
	for keyword, subjects := range keywordMapping {
		for _, s := range subjects {
			m[s] = keyword
		}
	}
	return m
}()

// KeywordForSubject returns the keyword bucket containing subject, or
// DefaultKeyword when the subject is unmapped.
func KeywordForSubject(subject string) string {
	if kw, ok := subjectToKeyword[subject]; ok {
		return kw
	}
	return DefaultKeyword
}

// ValidSubject reports whether subject is in the fixed vocabulary.
func ValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// ValidKeyword reports whether keyword is one of the coarse buckets.
func ValidKeyword(keyword string) bool {
	for _, k := range Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// Post is a blog entry. Keyword is derived state: it is recomputed from
// Subject on every save and never accepted from a client.
type Post struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Title      string         `gorm:"not null;size:100" json:"title"`
	Content    string         `gorm:"type:text" json:"content"`
	Subject    string         `gorm:"not null;size:50;default:'주제 선택 안 함'" json:"subject"`
	Keyword    string         `gorm:"not null;size:50;default:'default';index" json:"keyword"`
	Status     PostStatus     `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Visibility PostVisibility `gorm:"type:varchar(10);not null;default:'everyone'" json:"visibility"`

	// LikeCount and CommentCount are denormalized. They are adjusted in
	// the same transaction as every heart/comment mutation; see
	// repository.PostRepository.RecountPost for the consistency check.
	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	CommentCount int `gorm:"not null;default:0" json:"comment_count"`

	IsRead    bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User     User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Texts    []PostText  `gorm:"foreignKey:PostID" json:"texts,omitempty"`
	Images   []PostImage `gorm:"foreignKey:PostID" json:"images,omitempty"`
}

// BeforeSave keeps Keyword consistent with Subject on every write path.
func (p *Post) BeforeSave(_ *gorm.DB) error {
	if p.Subject == "" {
		p.Subject = DefaultSubject
	}
	p.Keyword = KeywordForSubject(p.Subject)
	return nil
}

// PostText is one styled text block of a post's rich-text body.
type PostText struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Content  string `gorm:"type:text" json:"content"`
	Font     string `gorm:"size:50;default:'nanum_gothic'" json:"font"`
	FontSize int    `gorm:"default:15" json:"font_size"`
	IsBold   bool   `gorm:"default:false" json:"is_bold"`

	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

// PostImage is one stored image of a post. Exactly one image per post
// carries IsRepresentative; captions and the representative flag are
// shared by every image in the same group.
type PostImage struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	PostID           uint   `gorm:"not null;index" json:"post_id"`
	URL              string `gorm:"not null" json:"url"`
	Caption          string `gorm:"size:255" json:"caption"`
	IsRepresentative bool   `gorm:"not null;default:false" json:"is_representative"`
	ImageGroupID     int    `gorm:"not null;default:1" json:"image_group_id"`

	CreatedAt time.Time `json:"created_at"`

	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
