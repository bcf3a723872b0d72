package v1

import (
	"github.com/reposcope/reposcope/domain/change"
	"github.com/reposcope/reposcope/domain/history"
	"github.com/reposcope/reposcope/infrastructure/api/v1/dto"
)

func commitToDTO(rev history.Revision) dto.CommitResponse {
	parents := rev.Parents
	if parents == nil {
		parents = []string{}
	}
	return dto.CommitResponse{
		OID:         rev.ID,
		Message:     rev.Message,
		Author:      signatureToDTO(rev.Author),
		Committer:   signatureToDTO(rev.Committer),
		Timestamp:   rev.Timestamp,
		ParentCount: len(rev.Parents),
		Parents:     parents,
	}
}

func commitPtrToDTO(rev *history.Revision) *dto.CommitResponse {
	if rev == nil {
		return nil
	}
	resp := commitToDTO(*rev)
	return &resp
}

func signatureToDTO(sig history.Signature) dto.SignatureResponse {
	return dto.SignatureResponse{Name: sig.Name, Email: sig.Email}
}

func pageToDTO(page history.Page) dto.CommitListResponse {
	commits := make([]dto.CommitResponse, 0, len(page.Items))
	for _, rev := range page.Items {
		commits = append(commits, commitToDTO(rev))
	}

	contributors := make([]dto.ContributorResponse, 0, len(page.Contributors))
	for _, c := range page.Contributors {
		contributors = append(contributors, dto.ContributorResponse{
			Name:    c.Name,
			Email:   c.Email,
			Commits: c.Commits,
		})
	}

	return dto.CommitListResponse{
		Commits:       commits,
		Total:         page.Total,
		FilteredTotal: page.FilteredTotal,
		HasMore:       page.HasMore,
		Contributors:  contributors,
	}
}

func diffToDTO(result change.Result) dto.DiffResponse {
	files := make([]dto.FileDeltaResponse, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, fileDeltaToDTO(f))
	}

	contributors := make([]dto.SignatureResponse, 0, len(result.Contributors))
	for _, sig := range result.Contributors {
		contributors = append(contributors, signatureToDTO(sig))
	}

	return dto.DiffResponse{
		FromCommit:    result.From,
		ToCommit:      result.To,
		Path:          result.Path,
		Files:         files,
		Stats:         statsToDTO(result.Stats),
		Contributors:  contributors,
		TotalFiles:    result.TotalFiles,
		FilteredFiles: result.FilteredFiles,
	}
}

func fileDeltaToDTO(f change.FileDelta) dto.FileDeltaResponse {
	hunks := make([]dto.HunkResponse, 0, len(f.Hunks))
	for _, h := range f.Hunks {
		hunks = append(hunks, hunkToDTO(h))
	}

	return dto.FileDeltaResponse{
		OldPath:             f.OldPath,
		NewPath:             f.NewPath,
		Status:              string(f.Status),
		IsBinary:            f.Binary,
		OldContent:          f.OldContent,
		NewContent:          f.NewContent,
		Hunks:               hunks,
		Authors:             contributionsToDTO(f.Authors),
		BiggestChangeAuthor: f.TopAuthor,
	}
}

func hunkToDTO(h change.Hunk) dto.HunkResponse {
	lines := make([]dto.LineResponse, 0, len(h.Lines))
	for _, l := range h.Lines {
		lines = append(lines, dto.LineResponse{
			Kind:      string(l.Kind),
			OldNumber: l.OldNumber,
			NewNumber: l.NewNumber,
			Content:   l.Text,
		})
	}
	return dto.HunkResponse{
		OldStart: h.OldStart,
		OldLines: h.OldLines,
		NewStart: h.NewStart,
		NewLines: h.NewLines,
		Header:   h.Header,
		Lines:    lines,
	}
}

func statsToDTO(s change.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		FilesChanged: s.FilesChanged,
		Insertions:   s.Insertions,
		Deletions:    s.Deletions,
	}
}

func contributionsToDTO(contributions []change.AuthorContribution) []dto.AuthorContributionResponse {
	if len(contributions) == 0 {
		return nil
	}
	out := make([]dto.AuthorContributionResponse, 0, len(contributions))
	for _, c := range contributions {
		out = append(out, dto.AuthorContributionResponse{
			Email:         c.Email,
			Name:          c.Name,
			Commits:       c.Commits,
			LastTimestamp: c.LastTimestamp,
		})
	}
	return out
}

func infoToDTO(info history.RepositoryInfo, changedFiles int) dto.RepositoryResponse {
	return dto.RepositoryResponse{
		Name:         info.Name,
		Path:         info.Path,
		HeadBranch:   info.HeadBranch,
		Head:         commitPtrToDTO(info.Head),
		IsBare:       info.Bare,
		IsEmpty:      info.Empty,
		ChangedFiles: changedFiles,
	}
}

func branchesToDTO(branches []history.Branch) dto.BranchListResponse {
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.BranchResponse{
			Name:       b.Name,
			IsCurrent:  b.Current,
			IsRemote:   b.Remote,
			LastCommit: commitPtrToDTO(b.Last),
		})
	}
	return dto.BranchListResponse{Branches: out}
}

func treeToDTO(path string, entries []history.TreeEntry) dto.TreeResponse {
	out := make([]dto.TreeEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.TreeEntryResponse{
			Name:       e.Name,
			Path:       e.Path,
			EntryType:  string(e.Kind),
			LastCommit: commitPtrToDTO(e.Last),
		}
		if e.Kind == history.EntryFile || e.Kind == history.EntrySymlink {
			size := e.Size
			resp.Size = &size
		}
		out = append(out, resp)
	}
	return dto.TreeResponse{Path: path, Entries: out}
}

func fullTreeToDTO(nodes []history.TreeNode) dto.FullTreeResponse {
	return dto.FullTreeResponse{Entries: treeNodesToDTO(nodes)}
}

func treeNodesToDTO(nodes []history.TreeNode) []dto.FullTreeEntryResponse {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]dto.FullTreeEntryResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.FullTreeEntryResponse{
			Name:      n.Name,
			Path:      n.Path,
			EntryType: string(n.Kind),
			Children:  treeNodesToDTO(n.Children),
		})
	}
	return out
}

func directoryInfoToDTO(info history.DirectoryInfo) dto.DirectoryInfoResponse {
	contributors := make([]dto.ContributorResponse, 0, len(info.Contributors))
	for _, c := range info.Contributors {
		contributors = append(contributors, dto.ContributorResponse{
			Name:    c.Name,
			Email:   c.Email,
			Commits: c.Commits,
		})
	}
	return dto.DirectoryInfoResponse{
		Path:           info.Path,
		FileCount:      info.Files,
		DirectoryCount: info.Directories,
		TotalSize:      info.TotalSize,
		Contributors:   contributors,
		FirstCommit:    commitPtrToDTO(info.First),
		LatestCommit:   commitPtrToDTO(info.Last),
	}
}

func blameToDTO(path, commit string, lines []change.BlameLine) dto.BlameResponse {
	out := make([]dto.BlameLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.BlameLineResponse{
			Line:        l.Number,
			AuthorName:  l.AuthorName,
			AuthorEmail: l.AuthorEmail,
			CommitOID:   l.RevisionID,
			Timestamp:   l.Timestamp,
		})
	}
	return dto.BlameResponse{Path: path, Commit: commit, Lines: out}
}
