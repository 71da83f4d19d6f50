package chat

import (
	"regexp"
	"slices"
)

const youtubeEmbedBase = "https://www.youtube.com/embed/"

var (
	youtubeRe = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=([\w\-]+)`)
	imageRe   = regexp.MustCompile(`https?://\S+\.(?:png|jpe?g|webp|gif)`)
)

// EmbedLinks rewrites YouTube watch urls as markdown links and image urls
// as markdown images.
func EmbedLinks(text string) string {
	text = youtubeRe.ReplaceAllString(text, "[Watch on YouTube]($0)")
	return imageRe.ReplaceAllString(text, "![Image]($0)")
}

// ExtractYouTubeIDs returns the video ids of every YouTube watch url in
// text, in order of appearance.
func ExtractYouTubeIDs(text string) []string {
	var ids []string
	for _, m := range youtubeRe.FindAllStringSubmatch(text, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

// EmbedURL is the iframe source for a YouTube video id.
func EmbedURL(id string) string {
	return youtubeEmbedBase + id
}

// mergeIDs appends the ids not yet in list and returns the new list and
// the ids that were added.
func mergeIDs(list, ids []string) ([]string, []string) {
	var added []string
	for _, id := range ids {
		if slices.Contains(list, id) {
			continue
		}
		list = append(list, id)
		added = append(added, id)
	}
	return list, added
}
